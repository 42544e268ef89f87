// Package credentials implements persistence for the Komga server Credentials.
//
// The FileRepository stores and loads them as JSON on disk and exposes a
// Repository interface that the resolver and the settings service depend on.
package credentials
