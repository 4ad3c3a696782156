package camera

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/tetsuo/cr3/tiffmeta"
)

//go:embed cameras.yaml
var builtin []byte

// Entry is one camera definition as stored in a database file.
type Entry struct {
	Make       string   `yaml:"make" json:"make"`
	Model      string   `yaml:"model" json:"model"`
	CleanMake  string   `yaml:"clean_make" json:"clean_make"`
	CleanModel string   `yaml:"clean_model" json:"clean_model"`
	Aliases    []string `yaml:"aliases,omitempty" json:"aliases,omitempty"`
	Mode       string   `yaml:"mode,omitempty" json:"mode,omitempty"`
}

// File is the on-disk layout of a camera database.
type File struct {
	Cameras []Entry `yaml:"cameras" json:"cameras"`
}

type key struct {
	make, model string
}

func makeKey(mk, model string) key {
	return key{
		make:  strings.ToLower(strings.TrimSpace(mk)),
		model: strings.ToLower(strings.TrimSpace(model)),
	}
}

// Database maps make/model pairs to camera definitions. It is immutable
// after construction and safe for concurrent use.
type Database struct {
	entries map[key]Entry
}

var (
	defaultOnce sync.Once
	defaultDB   *Database
)

// Default returns the built-in database.
func Default() *Database {
	defaultOnce.Do(func() {
		db, err := ParseYAML(builtin)
		if err != nil {
			panic("camera: built-in database: " + err.Error())
		}
		defaultDB = db
	})
	return defaultDB
}

// ParseYAML decodes a YAML database.
func ParseYAML(data []byte) (*Database, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing camera database: %w", err)
	}
	return newDatabase(f.Cameras)
}

// ParseJSONC decodes a JSON database that may contain comments and
// trailing commas.
func ParseJSONC(data []byte) (*Database, error) {
	var f File
	if err := json.Unmarshal(jsonc.ToJSON(data), &f); err != nil {
		return nil, fmt.Errorf("parsing camera database: %w", err)
	}
	return newDatabase(f.Cameras)
}

// LoadFile reads a database from path. The format is chosen by extension:
// .yaml/.yml or .json/.jsonc.
func LoadFile(path string) (*Database, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var db *Database
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		db, err = ParseYAML(data)
	case ".json", ".jsonc":
		db, err = ParseJSONC(data)
	default:
		return nil, fmt.Errorf("unsupported camera database format: %s (supported: .yaml, .jsonc)", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return db, nil
}

func newDatabase(entries []Entry) (*Database, error) {
	db := &Database{entries: make(map[key]Entry, len(entries))}
	for i, e := range entries {
		if e.Make == "" || e.Model == "" {
			return nil, fmt.Errorf("camera entry %d: make and model are required", i)
		}
		if e.CleanMake == "" {
			e.CleanMake = e.Make
		}
		if e.CleanModel == "" {
			e.CleanModel = e.Model
		}
		db.entries[makeKey(e.Make, e.Model)] = e
		for _, alias := range e.Aliases {
			db.entries[makeKey(e.Make, alias)] = e
		}
	}
	return db, nil
}

// Len returns the number of make/model keys, aliases included.
func (d *Database) Len() int {
	return len(d.entries)
}

// Merge returns a database holding the entries of d and o. Entries of o
// replace entries of d with the same make/model.
func (d *Database) Merge(o *Database) *Database {
	m := &Database{entries: make(map[key]Entry, len(d.entries)+len(o.entries))}
	for k, e := range d.entries {
		m.entries[k] = e
	}
	for k, e := range o.entries {
		m.entries[k] = e
	}
	return m
}

// Lookup returns the camera for a make/model pair.
func (d *Database) Lookup(mk, model string) (Camera, bool) {
	e, ok := d.entries[makeKey(mk, model)]
	if !ok {
		return Camera{}, false
	}
	return Camera{
		Make:       e.Make,
		CleanMake:  e.CleanMake,
		Model:      e.Model,
		CleanModel: e.CleanModel,
		Mode:       e.Mode,
	}, true
}

// CheckSupported reads Make and Model from ifd and looks them up.
func (d *Database) CheckSupported(ifd *tiffmeta.Dir) (Camera, error) {
	mk, ok := ifd.FindEntry(tiffmeta.Make)
	if !ok {
		return Camera{}, fmt.Errorf("%w: no Make tag", ErrUnsupportedCamera)
	}
	md, ok := ifd.FindEntry(tiffmeta.Model)
	if !ok {
		return Camera{}, fmt.Errorf("%w: no Model tag", ErrUnsupportedCamera)
	}
	cam, ok := d.Lookup(mk.String(), md.String())
	if !ok {
		return Camera{}, fmt.Errorf("%w: %q %q", ErrUnsupportedCamera, mk.String(), md.String())
	}
	return cam, nil
}
