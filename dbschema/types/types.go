// Package types holds the raw introspection shapes returned by the
// database before they are parsed into schema entities.
package types

// DatabaseInfo mirrors the result of INFO FOR DB: each map pairs an entity
// name with the definition statement the database stores for it.
type DatabaseInfo struct {
	Tables    map[string]string `json:"tables"`
	Functions map[string]string `json:"functions"`
	Analyzers map[string]string `json:"analyzers"`
	Params    map[string]string `json:"params"`
	Scopes    map[string]string `json:"scopes"`
	Sequences map[string]string `json:"sequences"`
	Users     map[string]string `json:"users"`
	// Accesses supersedes Scopes in newer server versions; both are read
	// so either vintage introspects cleanly.
	Accesses map[string]string `json:"accesses"`
}

// TableInfo mirrors the result of INFO FOR TABLE for a single table.
type TableInfo struct {
	Fields  map[string]string `json:"fields"`
	Indexes map[string]string `json:"indexes"`
	Events  map[string]string `json:"events"`
}
