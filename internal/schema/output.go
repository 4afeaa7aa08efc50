package schema

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// modelExtensions are the file types dbt builds models from
var modelExtensions = map[string]bool{".sql": true, ".py": true}

// ListArtifacts returns the sorted, de-duplicated model names in a directory.
// The name of a model is its file name up to the first dot.
func ListArtifacts(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list models in %s: %w", dir, err)
	}

	seen := make(map[string]bool)
	var tables []string
	for _, entry := range entries {
		if entry.IsDir() || !modelExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}
		table, _, _ := strings.Cut(entry.Name(), ".")
		if table == "" || seen[table] {
			continue
		}
		seen[table] = true
		tables = append(tables, table)
	}

	sort.Strings(tables)
	return tables, nil
}

// ConfigPath derives the schema file path from the models directory:
// models/path/to/location gives models/path/to/location/_path_to_location.yml
func ConfigPath(fileLocation string) string {
	location := strings.TrimRight(filepath.ToSlash(fileLocation), "/")

	parts := strings.Split(location, "models/")
	name := strings.Join(strings.Split(parts[len(parts)-1], "/"), "_")

	return filepath.Join(fileLocation, "_"+name+".yml")
}

// WriteOutput writes the schema file unless it already exists.
// It returns the path and whether the file was written.
func WriteOutput(content, fileLocation string) (string, bool, error) {
	path := ConfigPath(fileLocation)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if errors.Is(err, fs.ErrExist) {
		log.Printf("Config file %s already exists, ignoring.", path)
		return path, false, nil
	}
	if err != nil {
		return path, false, fmt.Errorf("failed to create config file: %w", err)
	}

	if _, err := f.WriteString(content); err != nil {
		f.Close()
		return path, false, fmt.Errorf("failed to write config file: %w", err)
	}
	if err := f.Close(); err != nil {
		return path, false, fmt.Errorf("failed to close config file: %w", err)
	}

	return path, true, nil
}
