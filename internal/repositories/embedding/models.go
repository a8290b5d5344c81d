package embedding

// SystemStats is the store-reported state captured in snapshots, keyed by table name
type SystemStats struct {
	TableStats map[string]TableStats `json:"table_stats"`
}

type TableStats struct {
	Entries int64  `json:"entries"`
	Backend string `json:"backend"`
}

// Key returns the canonical "<entityType>:<entityID>" key
func Key(entityType, entityID string) string {
	return entityType + ":" + entityID
}
