// Package inspect provides schema inspectors that serve core.Inspector
// from static catalog descriptions, for tests and offline checks where
// no live database is available.
package inspect

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/leapstack-labs/lql/pkg/core"
	"gopkg.in/yaml.v3"
)

// catalogFile is the YAML shape of a static catalog:
//
//	tables:
//	  Users:
//	    - {name: Id, type: int}
//	    - {name: Name, type: text, nullable: true}
type catalogFile struct {
	Tables map[string][]catalogColumn `yaml:"tables"`
}

type catalogColumn struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`
	Nullable bool   `yaml:"nullable"`
}

// Static is an in-memory core.Inspector.
type Static struct {
	tables map[string]*core.TableSchema // keyed lowercase
}

// NewStatic builds a static inspector from table schemas.
func NewStatic(tables ...*core.TableSchema) *Static {
	s := &Static{tables: make(map[string]*core.TableSchema, len(tables))}
	for _, t := range tables {
		s.tables[strings.ToLower(t.Name)] = t
	}
	return s
}

// LoadCatalog reads a YAML catalog file into a static inspector.
func LoadCatalog(path string) (*Static, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog parses YAML catalog bytes into a static inspector.
func ParseCatalog(data []byte) (*Static, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}

	s := &Static{tables: make(map[string]*core.TableSchema, len(f.Tables))}
	for name, cols := range f.Tables {
		ts := &core.TableSchema{Name: name}
		for _, c := range cols {
			pt, err := portableType(c.Type)
			if err != nil {
				return nil, fmt.Errorf("table %s, column %s: %w", name, c.Name, err)
			}
			ts.Columns = append(ts.Columns, core.ColumnInfo{
				Name:     c.Name,
				Type:     pt,
				Nullable: c.Nullable,
			})
		}
		s.tables[strings.ToLower(name)] = ts
	}
	return s, nil
}

// Tables implements core.Inspector.
func (s *Static) Tables(_ context.Context) ([]string, error) {
	names := make([]string, 0, len(s.tables))
	for _, t := range s.tables {
		names = append(names, t.Name)
	}
	sort.Strings(names)
	return names, nil
}

// Table implements core.Inspector.
func (s *Static) Table(_ context.Context, name string) (*core.TableSchema, error) {
	if t, ok := s.tables[strings.ToLower(name)]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("table %s: %w", name, core.ErrUnknownTable)
}

func portableType(s string) (core.PortableType, error) {
	switch strings.ToLower(s) {
	case "text", "":
		return core.TypeText, nil
	case "int", "integer":
		return core.TypeInt, nil
	case "real", "float", "double":
		return core.TypeReal, nil
	case "blob", "bytes":
		return core.TypeBlob, nil
	default:
		return "", fmt.Errorf("unknown portable type %q", s)
	}
}
