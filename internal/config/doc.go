// Package config defines the application settings file and provides helpers
// to load, validate and save it in YAML format.
//
// The Config type holds where the credential state lives, the probe timeout,
// logging level and the listen addresses of the serve command. Server
// credentials themselves are not part of it: they are kept by the credential
// repository and edited through the CLI.
package config
