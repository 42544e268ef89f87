package credentials

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/oshokin/komga-settings/internal/config"
	domain "github.com/oshokin/komga-settings/internal/domain/komga"
)

// Repository defines persistence operations for the server credentials.
// Set replaces the whole object; setting an empty one is a reset.
type Repository interface {
	Get(ctx context.Context) (*domain.Credentials, error)
	Set(ctx context.Context, credentials *domain.Credentials) error
}

// Keys of the persisted JSON object.
const (
	keyServerURL      = "serverURL"
	keyServerUsername = "serverUsername"
	keyServerPassword = "serverPassword"
)

// errNotAString is returned when a persisted field holds a non-string value.
var errNotAString = errors.New("value is not a string")

// FileRepository persists the credentials to a JSON file on disk.
// JSON is produced and consumed via protobuf JSON (protojson) over a
// structpb.Struct, so an unset field is an absent key rather than "".
type FileRepository struct {
	// path is the filesystem location of the JSON state file.
	path string
	// mu serializes access to the state file.
	mu sync.Mutex
}

// NewFileRepository creates a repository that reads/writes JSON at the provided path.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{
		path: filepath.Clean(path),
	}
}

// Path returns the location of the state file.
func (r *FileRepository) Path() string {
	return r.path
}

// Get reads the credentials from disk. A missing file yields empty credentials.
func (r *FileRepository) Get(_ context.Context) (*domain.Credentials, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	contents, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return new(domain.Credentials), nil
		}

		return nil, fmt.Errorf("read state file: %w", err)
	}

	var stored structpb.Struct
	if err = protojson.Unmarshal(contents, &stored); err != nil {
		return nil, fmt.Errorf("decode state file: %w", err)
	}

	credentials, err := fromStruct(&stored)
	if err != nil {
		return nil, fmt.Errorf("decode state file: %w", err)
	}

	return credentials, nil
}

// Set writes the credentials to disk, replacing whatever was stored before.
func (r *FileRepository) Set(_ context.Context, credentials *domain.Credentials) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	marshalOptions := protojson.MarshalOptions{
		Multiline: true,
		Indent:    "  ",
	}

	data, err := marshalOptions.Marshal(toStruct(credentials))
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	if err = os.WriteFile(r.path, data, config.DefaultFilePermissions); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}

	return nil
}

// fromStruct converts the persisted object into domain Credentials.
// Unknown keys are ignored.
func fromStruct(stored *structpb.Struct) (*domain.Credentials, error) {
	var (
		credentials = new(domain.Credentials)
		targets     = map[string]**string{
			keyServerURL:      &credentials.ServerURL,
			keyServerUsername: &credentials.ServerUsername,
			keyServerPassword: &credentials.ServerPassword,
		}
	)

	for key, target := range targets {
		value, ok := stored.GetFields()[key]
		if !ok {
			continue
		}

		text, ok := value.GetKind().(*structpb.Value_StringValue)
		if !ok {
			return nil, fmt.Errorf("%s: %w", key, errNotAString)
		}

		*target = domain.String(text.StringValue)
	}

	return credentials, nil
}

// toStruct converts domain Credentials into the persisted object, skipping unset fields.
func toStruct(credentials *domain.Credentials) *structpb.Struct {
	stored := &structpb.Struct{
		Fields: make(map[string]*structpb.Value, 3), //nolint:mnd // One per credential field.
	}

	if credentials == nil {
		return stored
	}

	sources := map[string]*string{
		keyServerURL:      credentials.ServerURL,
		keyServerUsername: credentials.ServerUsername,
		keyServerPassword: credentials.ServerPassword,
	}

	for key, value := range sources {
		if value != nil {
			stored.Fields[key] = structpb.NewStringValue(*value)
		}
	}

	return stored
}
