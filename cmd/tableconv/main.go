// tableconv converts balance spreadsheets (CSV exports) into the YAML
// tables the simulation loads.
//
// Produces:
//   - data/enemies.yaml — enemy type stats
//   - data/waves.yaml   — wave schedule
//
// Usage:
//
//	go run ./cmd/tableconv enemies [in.csv] [out.yaml]
//	go run ./cmd/tableconv waves   [in.csv] [out.yaml]
//	go run ./cmd/tableconv all
//
// "all" converts both tables from their default paths. Converted files pass
// the same validation the simulation applies at load, so a file this tool
// writes always loads.
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/beshoy23/brainrot-survivors-sub001/internal/data"
)

// ---------------------------------------------------------------------------
// YAML file structures
// ---------------------------------------------------------------------------

type enemyFile struct {
	Enemies []data.EnemyType `yaml:"enemies"`
}

type waveFile struct {
	Waves []data.Wave `yaml:"waves"`
}

// ---------------------------------------------------------------------------
// Main
// ---------------------------------------------------------------------------

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "enemies":
		in, out := argPaths("enemies.csv", filepath.Join("data", "enemies.yaml"))
		convertEnemies(in, out)
	case "waves":
		in, out := argPaths("waves.csv", filepath.Join("data", "waves.yaml"))
		convertWaves(in, out)
	case "all":
		convertEnemies("enemies.csv", filepath.Join("data", "enemies.yaml"))
		convertWaves("waves.csv", filepath.Join("data", "waves.yaml"))
	default:
		fmt.Fprintf(os.Stderr, "unknown table %q\n", os.Args[1])
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: tableconv <enemies|waves|all> [in.csv] [out.yaml]")
}

func argPaths(defIn, defOut string) (string, string) {
	in, out := defIn, defOut
	if len(os.Args) >= 3 {
		in = os.Args[2]
	}
	if len(os.Args) >= 4 {
		out = os.Args[3]
	}
	return in, out
}

// ---------------------------------------------------------------------------
// Enemy table
// ---------------------------------------------------------------------------

// Expected columns:
// id,name,health,damage,speed,size,shape,color,spawn_weight,movement,lifetime_sec
func convertEnemies(inputPath, outputPath string) {
	rows := readCSV(inputPath, 11)

	var entries []data.EnemyType
	for _, r := range rows {
		e := data.EnemyType{
			ID:       strings.TrimSpace(r.cells[0]),
			Name:     strings.TrimSpace(r.cells[1]),
			Shape:    strings.TrimSpace(r.cells[6]),
			Color:    strings.TrimSpace(r.cells[7]),
			Movement: strings.TrimSpace(r.cells[9]),
		}
		ok := true
		e.Health = parseFloat(r, 2, &ok)
		e.Damage = parseFloat(r, 3, &ok)
		e.Speed = parseFloat(r, 4, &ok)
		e.Size = parseFloat(r, 5, &ok)
		e.SpawnWeight = parseInt(r, 8, &ok)
		e.LifetimeSec = parseFloat(r, 10, &ok)
		if !ok {
			continue
		}
		entries = append(entries, e)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })

	// ---- Validate exactly the way the simulation will ----
	if _, err := data.NewEnemyTable(entries); err != nil {
		fmt.Fprintf(os.Stderr, "error: converted table invalid: %v\n", err)
		os.Exit(1)
	}

	header := "# Enemy type stats - converted by tableconv\n\n"
	writeYAML(outputPath, header, &enemyFile{Enemies: entries})
	fmt.Printf("Wrote %d enemy types to %s\n", len(entries), outputPath)
}

// ---------------------------------------------------------------------------
// Wave table
// ---------------------------------------------------------------------------

// Expected columns:
// minute,min_enemies,max_enemies,spawn_interval,batch_size,types,elite
// The types cell holds enemy IDs separated by "|".
func convertWaves(inputPath, outputPath string) {
	rows := readCSV(inputPath, 7)

	var entries []data.Wave
	for _, r := range rows {
		w := data.Wave{}
		ok := true
		w.Minute = parseInt(r, 0, &ok)
		w.MinEnemies = parseInt(r, 1, &ok)
		w.MaxEnemies = parseInt(r, 2, &ok)
		w.SpawnInterval = parseFloat(r, 3, &ok)
		w.BatchSize = parseInt(r, 4, &ok)
		if !ok {
			continue
		}
		for _, id := range strings.Split(r.cells[5], "|") {
			id = strings.TrimSpace(id)
			if id != "" {
				w.Types = append(w.Types, id)
			}
		}
		switch strings.ToLower(strings.TrimSpace(r.cells[6])) {
		case "1", "true", "yes", "y":
			w.Elite = true
		}
		entries = append(entries, w)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Minute < entries[j].Minute })

	// ---- Validate exactly the way the simulation will ----
	// Type IDs are checked at load against the enemy table, not here.
	if _, err := data.NewWaveTable(entries, nil); err != nil {
		fmt.Fprintf(os.Stderr, "error: converted table invalid: %v\n", err)
		os.Exit(1)
	}

	header := "# Wave schedule - converted by tableconv\n\n"
	writeYAML(outputPath, header, &waveFile{Waves: entries})
	fmt.Printf("Wrote %d waves to %s\n", len(entries), outputPath)
}

// ---------------------------------------------------------------------------
// CSV helpers
// ---------------------------------------------------------------------------

type row struct {
	line  int
	cells []string
}

// readCSV reads all records with at least wantCols columns. A header row is
// detected by a non-numeric first cell and skipped.
func readCSV(path string, wantCols int) []row {
	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error reading %s: %v\n", path, err)
		os.Exit(1)
	}
	defer f.Close()

	rd := csv.NewReader(f)
	rd.FieldsPerRecord = -1
	rd.TrimLeadingSpace = true
	records, err := rd.ReadAll()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error parsing %s: %v\n", path, err)
		os.Exit(1)
	}

	var rows []row
	for i, rec := range records {
		if len(rec) == 0 {
			continue
		}
		if i == 0 && isHeaderCell(rec[0]) {
			continue
		}
		if len(rec) < wantCols {
			fmt.Fprintf(os.Stderr, "warning: line %d has %d columns, want %d, skipping\n",
				i+1, len(rec), wantCols)
			continue
		}
		rows = append(rows, row{line: i + 1, cells: rec})
	}
	return rows
}

func isHeaderCell(cell string) bool {
	switch strings.ToLower(strings.TrimSpace(cell)) {
	case "id", "minute", "":
		return true
	}
	return false
}

func parseFloat(r row, col int, ok *bool) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(r.cells[col]), 64)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: line %d col %d: bad number %q, skipping row\n",
			r.line, col+1, r.cells[col])
		*ok = false
		return 0
	}
	return v
}

func parseInt(r row, col int, ok *bool) int {
	v, err := strconv.Atoi(strings.TrimSpace(r.cells[col]))
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: line %d col %d: bad integer %q, skipping row\n",
			r.line, col+1, r.cells[col])
		*ok = false
		return 0
	}
	return v
}

// ---------------------------------------------------------------------------
// Output
// ---------------------------------------------------------------------------

func writeYAML(path, header string, v any) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "error creating output directory: %v\n", err)
		os.Exit(1)
	}
	raw, err := yaml.Marshal(v)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error marshalling YAML: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(path, append([]byte(header), raw...), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "error writing %s: %v\n", path, err)
		os.Exit(1)
	}
}
