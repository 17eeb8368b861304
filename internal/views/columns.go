package views

import (
	"fmt"
	"strings"
	"sync"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

var schemaCache = &sync.Map{}

// columnsAs selects every column of model from table, aliased with prefix so
// the result scans into a field tagged embeddedPrefix:<prefix>.
func columnsAs(db *gorm.DB, model interface{}, table, prefix string) ([]string, error) {
	s, err := schema.Parse(model, schemaCache, db.NamingStrategy)
	if err != nil {
		return nil, fmt.Errorf("parse %T: %w", model, err)
	}
	cols := make([]string, 0, len(s.DBNames))
	for _, name := range s.DBNames {
		cols = append(cols, table+"."+name+" AS "+prefix+name)
	}
	return cols, nil
}

func joinColumns(groups ...[]string) string {
	var all []string
	for _, g := range groups {
		all = append(all, g...)
	}
	return strings.Join(all, ", ")
}
