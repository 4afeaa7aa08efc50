package profile

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os/exec"
	"strings"

	"github.com/gerhard-ee/dbtschema/internal/config"
)

// ErrNoProfile is returned when the profiler produced no schema for a relation
var ErrNoProfile = errors.New("no schema found in output of print_profile_schema")

// Provider returns the column profile of a table or view
type Provider interface {
	Profile(ctx context.Context, schema, table string, exclude []string) (*Model, error)
}

// Runner executes a command and returns its standard output
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// DBTProvider profiles relations with the dbt-profiler print_profile_schema operation
type DBTProvider struct {
	Command     string
	ProjectDir  string
	ProfilesDir string
	Run         Runner
}

// NewDBTProvider creates a DBTProvider from the configuration
func NewDBTProvider(cfg *config.Config) *DBTProvider {
	return &DBTProvider{
		Command:     cfg.DBTCommand,
		ProjectDir:  cfg.DBTProjectDir,
		ProfilesDir: cfg.DBTProfilesDir,
		Run:         execRunner,
	}
}

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	out, err := exec.CommandContext(ctx, name, args...).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return out, fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return out, fmt.Errorf("%s: %w", name, err)
	}
	return out, nil
}

type operationArgs struct {
	RelationName   string   `json:"relation_name"`
	Schema         string   `json:"schema"`
	ExcludeColumns []string `json:"exclude_columns,omitempty"`
}

// Args returns the dbt command line for profiling schema.table
func (p *DBTProvider) Args(schema, table string, exclude []string) ([]string, error) {
	opArgs, err := json.Marshal(operationArgs{
		RelationName:   table,
		Schema:         schema,
		ExcludeColumns: exclude,
	})
	if err != nil {
		return nil, fmt.Errorf("encode operation args: %w", err)
	}

	args := []string{"run-operation", "print_profile_schema", "--args", string(opArgs)}
	if p.ProjectDir != "" {
		args = append(args, "--project-dir", p.ProjectDir)
	}
	if p.ProfilesDir != "" {
		args = append(args, "--profiles-dir", p.ProfilesDir)
	}
	return args, nil
}

// Profile runs the profiler and parses the first model it prints
func (p *DBTProvider) Profile(ctx context.Context, schema, table string, exclude []string) (*Model, error) {
	args, err := p.Args(schema, table, exclude)
	if err != nil {
		return nil, err
	}

	command := p.Command
	if command == "" {
		command = "dbt"
	}
	run := p.Run
	if run == nil {
		run = execRunner
	}

	log.Printf("Executing: %s %s", command, strings.Join(args, " "))

	out, err := run(ctx, command, args...)
	if err != nil {
		return nil, fmt.Errorf("profile %s.%s: %w", schema, table, err)
	}

	text, err := extractProfile(out)
	if err != nil {
		return nil, fmt.Errorf("profile %s.%s: %w", schema, table, err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w for %s.%s", ErrNoProfile, schema, table)
	}

	models, err := ParseModels(text)
	if err != nil {
		return nil, fmt.Errorf("profile %s.%s: %w", schema, table, err)
	}
	if len(models) == 0 || models[0] == nil {
		return nil, fmt.Errorf("%w for %s.%s", ErrNoProfile, schema, table)
	}

	return models[0], nil
}

// extractProfile returns the lines printed after the first "models:" line
func extractProfile(out []byte) (string, error) {
	var b strings.Builder
	recording := false

	scanner := bufio.NewScanner(bytes.NewReader(out))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if recording {
			b.WriteString(line)
			b.WriteByte('\n')
		} else if strings.Contains(line, "models:") {
			recording = true
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("read profiler output: %w", err)
	}

	return b.String(), nil
}
