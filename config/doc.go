// Package config handles application configuration loading and validation.
//
// Configuration is loaded from config.yml and validated using struct
// tags. The API subscription key is never stored in the yaml file; it
// comes from the STOPREPORTS_API_KEY environment variable, optionally
// via a .env file.
package config
