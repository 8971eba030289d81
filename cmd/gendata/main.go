// Command gendata writes a synthetic capacity CSV in the exact shape of the
// REE "Capacidad de Acceso" export: UTF-8 BOM, four header lines, semicolon
// delimiters, dot thousands separators, and checkmark bay flags. It is meant
// for demos and for exercising the loader against files of arbitrary size.
//
// Usage:
//
//	go run ./cmd/gendata -rows 937 -out data/raw/demanda_synthetic.csv
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"github.com/gridatlas/capacidad/internal/domain"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	rows := flag.Int("rows", 937, "number of node rows to generate")
	out := flag.String("out", "data/raw/demanda_synthetic.csv", "output CSV path")
	seed := flag.Int64("seed", 42, "random seed")
	flag.Parse()

	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	f, err := os.Create(*out)
	if err != nil {
		return fmt.Errorf("create %s: %w", *out, err)
	}
	defer f.Close()

	rng := rand.New(rand.NewSource(*seed))
	schema := domain.DefaultSchema()

	// BOM plus the four title/header lines, like the real export.
	if _, err := f.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return err
	}
	fmt.Fprintln(f, "CAPACIDAD DE ACCESO DE DEMANDA;;;")
	fmt.Fprintln(f, "Red de Transporte;;;")
	fmt.Fprintln(f, ";;;")
	fmt.Fprintln(f, headerLine(schema))

	for i := 0; i < *rows; i++ {
		fmt.Fprintln(f, dataLine(rng, schema, i))
	}

	log.Printf("wrote %d rows to %s", *rows, *out)
	return f.Close()
}

func headerLine(s *domain.Schema) string {
	names := make([]string, s.Len())
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return strings.Join(names, ";")
}

var voltages = []string{"400", "220", "132", "66"}

var criteria = []string{
	"", "WSCR_Nudo", "Est_Dem_Nudo", "Est_Dem_Zona",
	"Din1_Zona", "Din1_Zona/Est_Dem_Nudo", "Din2_Zona",
}

// dataLine fabricates one plausible node row. Numeric cells above 1000 get
// dot thousands separators so the parser sees the real format.
func dataLine(rng *rand.Rand, s *domain.Schema, i int) string {
	region := domain.Regions[rng.Intn(len(domain.Regions))]
	voltage := voltages[rng.Intn(len(voltages))]
	name := fmt.Sprintf("NODO_%03d %s", i+1, voltage)
	blocked := rng.Float64() < 0.4

	capacity := 0.0
	criterion := criteria[1+rng.Intn(len(criteria)-1)]
	if !blocked {
		capacity = float64(rng.Intn(1500)) + 1
		if rng.Float64() < 0.5 {
			criterion = ""
		}
	}

	cells := make([]string, s.Len())
	for j, col := range s.Columns {
		switch col.Name {
		case domain.ColNode:
			cells[j] = name
		case domain.ColSubstation:
			cells[j] = fmt.Sprintf("SUB%04d", i+1)
		case domain.ColRegion:
			cells[j] = region
		case domain.ColPrimaryCap:
			cells[j] = formatNumber(capacity)
		case domain.ColPrimaryCrit:
			cells[j] = criterion
		case "estado_acuerdo":
			cells[j] = []string{"SI", "NO", "N/A"}[rng.Intn(3)]
		case "concurso":
			cells[j] = []string{"SI", "NO"}[rng.Intn(2)]
		default:
			switch col.Kind {
			case domain.KindPositionFlag:
				if rng.Float64() < 0.3 {
					cells[j] = domain.Checkmark
				}
			case domain.KindNumeric:
				cells[j] = formatNumber(float64(rng.Intn(3000)))
			}
		}
	}
	return strings.Join(cells, ";")
}

// formatNumber renders a value the way the source does: integer digits with
// dot thousands separators.
func formatNumber(v float64) string {
	s := fmt.Sprintf("%.0f", v)
	var b strings.Builder
	for i, digit := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(digit)
	}
	return b.String()
}
