package cliconfig

import "github.com/joho/godotenv"

// LoadDotenv loads KEY=VALUE pairs from path into the process
// environment. Variables that are already set keep their value, so a
// real environment variable still beats the .env file.
// A missing file is not an error.
func LoadDotenv(path string) error {
	if !FileExists(path) {
		return nil
	}
	return godotenv.Load(path)
}
