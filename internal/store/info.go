package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Collections tracked by Stats and Backup.
var collections = map[string]string{
	"products":   "Product Catalog",
	"categories": "Product Categories",
	"brands":     "Brand Information",
	"customers":  "Customer Data",
	"orders":     "Order Data",
	"users":      "User Accounts",
}

type FileInfo struct {
	Name         string `json:"name"`
	Records      int    `json:"records"`
	Size         int64  `json:"size"`
	LastModified string `json:"last_modified"`
	Valid        bool   `json:"valid"`
}

type Stats struct {
	TotalFiles   int                 `json:"total_files"`
	TotalRecords int                 `json:"total_records"`
	ValidFiles   int                 `json:"valid_files"`
	TotalSize    int64               `json:"total_size"`
	Files        map[string]FileInfo `json:"files"`
}

// recordCount counts top-level records in raw collection JSON. users.json is
// an object wrapping a "users" array; everything else is a plain array.
func recordCount(raw []byte) (int, bool) {
	var arr []json.RawMessage
	if err := json.Unmarshal(raw, &arr); err == nil {
		return len(arr), true
	}
	var obj map[string][]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err == nil {
		n := 0
		for _, v := range obj {
			n += len(v)
		}
		return n, true
	}
	return 0, false
}

// Stats reports per-file record counts, sizes and validity for the data
// dashboard. Files that do not exist yet are omitted.
func (s *Store) Stats() Stats {
	st := Stats{Files: make(map[string]FileInfo)}
	for name, label := range collections {
		fi, err := os.Stat(s.path(name))
		if err != nil {
			continue
		}
		raw, err := os.ReadFile(s.path(name))
		if err != nil {
			continue
		}
		records, valid := recordCount(raw)
		info := FileInfo{
			Name:         label,
			Records:      records,
			Size:         fi.Size(),
			LastModified: fi.ModTime().Format("Jan 2, 2006 3:04 PM"),
			Valid:        valid,
		}
		st.Files[name+".json"] = info
		st.TotalFiles++
		st.TotalRecords += records
		st.TotalSize += info.Size
		if valid {
			st.ValidFiles++
		}
	}
	return st
}

// Backup snapshots every collection into a single timestamped file under
// <dir>/backups and returns its path.
func (s *Store) Backup() (string, error) {
	backupDir := filepath.Join(s.dir, "backups")
	if err := os.MkdirAll(backupDir, 0o755); err != nil {
		return "", fmt.Errorf("store: create backup dir: %w", err)
	}

	all := make(map[string]json.RawMessage)
	total := 0
	for name := range collections {
		raw, err := os.ReadFile(s.path(name))
		if err != nil {
			raw = []byte("[]")
		}
		if n, ok := recordCount(raw); ok {
			total += n
		} else {
			raw = []byte("[]")
		}
		all[name+".json"] = raw
	}
	all["backup_info"], _ = json.Marshal(map[string]any{
		"created":       time.Now().Format("2006-01-02 15:04:05"),
		"files_count":   len(collections),
		"total_records": total,
	})

	data, err := json.MarshalIndent(all, "", "    ")
	if err != nil {
		return "", fmt.Errorf("store: encode backup: %w", err)
	}
	file := filepath.Join(backupDir, "backup_"+time.Now().Format("2006-01-02_15-04-05")+".json")
	if err := os.WriteFile(file, data, 0o644); err != nil {
		return "", fmt.Errorf("store: write backup: %w", err)
	}
	return file, nil
}
