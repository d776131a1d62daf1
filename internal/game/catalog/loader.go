package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadOptions controls how a content directory is loaded.
type LoadOptions struct {
	// RegisteredOnly drops every entry whose book is not flagged registered.
	RegisteredOnly bool
}

type validator interface {
	Definition
	Validate() error
}

// LoadDirectory reads a content tree laid out as one subdirectory per kind
// (books, skills, races, edges, hindrances, powers, arcane_backgrounds, frameworks,
// settings, gear, weapons, armor, vehicles, cyberware, robot_mods, tattoos).
// Each *.yaml or *.yml file may hold several documents separated by "---".
// Missing subdirectories are skipped.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns a populated Catalog, or an error naming the first bad file.
func LoadDirectory(dir string, opts LoadOptions) (*Catalog, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("catalog: reading content dir %q: %w", dir, err)
	}
	cat := New()

	books, err := decodeKind[Book](filepath.Join(dir, "books"))
	if err != nil {
		return nil, err
	}
	for _, b := range books {
		if err := b.Validate(); err != nil {
			return nil, fmt.Errorf("catalog: %w", err)
		}
		if err := cat.AddBook(b); err != nil {
			return nil, err
		}
	}

	keep := func(d Definition) bool {
		if !opts.RegisteredOnly {
			return true
		}
		bookID := d.Def().BookID
		if bookID == 0 {
			return true
		}
		b, ok := cat.Book(bookID)
		return ok && b.Registered
	}

	steps := []func() error{
		func() error { return loadInto(dir, "skills", keep, cat.AddSkill) },
		func() error { return loadInto(dir, "races", keep, cat.AddRace) },
		func() error { return loadInto(dir, "edges", keep, cat.AddEdge) },
		func() error { return loadInto(dir, "hindrances", keep, cat.AddHindrance) },
		func() error { return loadInto(dir, "powers", keep, cat.AddPower) },
		func() error { return loadInto(dir, "arcane_backgrounds", keep, cat.AddArcaneBackground) },
		func() error { return loadInto(dir, "frameworks", keep, cat.AddFramework) },
		func() error { return loadInto(dir, "settings", keep, cat.AddSetting) },
		func() error { return loadInto(dir, "gear", keep, cat.AddGear) },
		func() error { return loadInto(dir, "weapons", keep, cat.AddWeapon) },
		func() error { return loadInto(dir, "armor", keep, cat.AddArmor) },
		func() error { return loadInto(dir, "vehicles", keep, cat.AddVehicle) },
		func() error { return loadInto(dir, "cyberware", keep, cat.AddCyberware) },
		func() error { return loadInto(dir, "robot_mods", keep, cat.AddRobotMod) },
		func() error { return loadInto(dir, "tattoos", keep, cat.AddTattoo) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, err
		}
	}
	return cat, nil
}

func loadInto[T any, P interface {
	*T
	validator
}](root, kind string, keep func(Definition) bool, add func(P) error) error {
	defs, err := decodeKind[T](filepath.Join(root, kind))
	if err != nil {
		return err
	}
	for _, d := range defs {
		p := P(d)
		if err := p.Validate(); err != nil {
			return fmt.Errorf("catalog: invalid %s %q: %w", kind, p.Def().Name, err)
		}
		if !keep(p) {
			continue
		}
		if err := add(p); err != nil {
			return err
		}
	}
	return nil
}

// decodeKind parses every YAML document in dir as a T. A missing dir yields no entries.
func decodeKind[T any](dir string) ([]*T, error) {
	files, err := yamlFiles(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var out []*T
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("catalog: reading %q: %w", path, err)
		}
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		for {
			var v T
			err := dec.Decode(&v)
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				return nil, fmt.Errorf("catalog: parsing %q: %w", path, err)
			}
			out = append(out, &v)
		}
	}
	return out, nil
}

func yamlFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("catalog: reading directory %s: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
			paths = append(paths, filepath.Join(dir, name))
		}
	}
	sort.Strings(paths)
	return paths, nil
}
