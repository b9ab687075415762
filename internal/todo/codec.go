package todo

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed tasks.schema.json
var embeddedSchema string

const embeddedSchemaURL = "tasks.schema.json"

// ErrMalformed matches every error produced while decoding a task file.
var ErrMalformed = errors.New("malformed task file")

// ValidationError represents a validation error with context.
type ValidationError struct {
	Path string // JSON path to the error location
	Err  error  // Underlying error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Is makes every validation error match ErrMalformed.
func (e *ValidationError) Is(target error) bool {
	return target == ErrMalformed
}

// Decoder decodes task files, validating them against a JSON Schema first.
type Decoder struct {
	schema *jsonschema.Schema
}

var defaultDecoder = sync.OnceValues(func() (*Decoder, error) {
	return NewDecoder("")
})

// NewDecoder compiles the schema at schemaPath. An empty path selects the
// embedded schema.
func NewDecoder(schemaPath string) (*Decoder, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	compiler.AssertFormat = true

	if schemaPath == "" {
		if err := compiler.AddResource(embeddedSchemaURL, strings.NewReader(embeddedSchema)); err != nil {
			return nil, fmt.Errorf("add embedded schema: %w", err)
		}
		schema, err := compiler.Compile(embeddedSchemaURL)
		if err != nil {
			return nil, fmt.Errorf("compile embedded schema: %w", err)
		}
		return &Decoder{schema: schema}, nil
	}

	absPath, err := filepath.Abs(schemaPath)
	if err != nil {
		return nil, fmt.Errorf("invalid schema path: %w", err)
	}
	schema, err := compiler.Compile(absPath)
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", absPath, err)
	}
	return &Decoder{schema: schema}, nil
}

// Decode decodes data with the embedded schema.
func Decode(data []byte) ([]Task, error) {
	d, err := defaultDecoder()
	if err != nil {
		return nil, err
	}
	return d.Decode(data)
}

// Decode validates data and decodes it into tasks. All validation failures
// are joined into the returned error.
func (d *Decoder) Decode(data []byte) ([]Task, error) {
	var doc interface{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data after task list", ErrMalformed)
	}

	if err := d.schema.Validate(doc); err != nil {
		return nil, errors.Join(schemaErrors(err)...)
	}

	var tasks []Task
	strict := json.NewDecoder(bytes.NewReader(data))
	strict.DisallowUnknownFields()
	if err := strict.Decode(&tasks); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	if errs := checkUniqueIDs(tasks); len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	if tasks == nil {
		tasks = []Task{}
	}
	return tasks, nil
}

// Encode marshals tasks with 2-space indentation and a trailing newline.
func Encode(tasks []Task) ([]byte, error) {
	if tasks == nil {
		tasks = []Task{}
	}
	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// ReadFile reads the raw task file. A missing file yields an error that
// matches fs.ErrNotExist.
func ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read todo file: %w", err)
	}
	return data, nil
}

// renameFile is swapped out in tests to simulate a failed replace.
var renameFile = os.Rename

// WriteFile encodes tasks and atomically replaces the file at path. The
// data goes to a temp file in the same directory first, so a failed write
// leaves the previous file intact.
func WriteFile(path string, tasks []Task) (err error) {
	data, err := Encode(tasks)
	if err != nil {
		return fmt.Errorf("marshal todo file: %w", err)
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create todo dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp todo file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("write todo file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync todo file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close todo file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod todo file: %w", err)
	}
	if err := renameFile(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace todo file: %w", err)
	}
	return nil
}

func checkUniqueIDs(tasks []Task) []error {
	var errs []error
	seen := make(map[int]int, len(tasks))
	for i, t := range tasks {
		if first, ok := seen[t.ID]; ok {
			errs = append(errs, &ValidationError{
				Path: fmt.Sprintf("[%d].id", i),
				Err:  fmt.Errorf("duplicate id %d (first used at [%d])", t.ID, first),
			})
			continue
		}
		seen[t.ID] = i
	}
	return errs
}

func schemaErrors(err error) []error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return []error{&ValidationError{Err: err}}
	}
	var errs []error
	collectSchemaErrors(&errs, ve)
	return errs
}

func collectSchemaErrors(errs *[]error, err *jsonschema.ValidationError) {
	if err == nil {
		return
	}

	if len(err.Causes) == 0 {
		*errs = append(*errs, &ValidationError{
			Path: jsonPointerToPath(err.InstanceLocation),
			Err:  fmt.Errorf("%s", err.Message),
		})
		return
	}

	for _, cause := range err.Causes {
		collectSchemaErrors(errs, cause)
	}
}

// jsonPointerToPath converts "/0/status" to "[0].status".
func jsonPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}

	path := ""
	for _, part := range strings.Split(ptr, "/") {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part == "" {
			continue
		}
		if idx, err := strconv.Atoi(part); err == nil {
			path += fmt.Sprintf("[%d]", idx)
			continue
		}
		if path == "" {
			path = part
		} else {
			path += "." + part
		}
	}
	return path
}
