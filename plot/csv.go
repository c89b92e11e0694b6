// Package plot provides rendering sinks for engine results. Graphics
// proper are out of scope; the CSV sink produces the tabular form a
// charting frontend consumes.
package plot

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/banachtech/riskif/ifunc"
)

const layout = "2006-01-02"

// CSV writes one file per plotted result under Dir.
type CSV struct {
	Dir string
}

// Plot writes the result as x,if[,date] rows. The title names the file.
func (p CSV) Plot(r *ifunc.Result, title string) error {
	if title == "" {
		title = string(r.Estimator)
	}
	f, err := os.Create(filepath.Join(p.Dir, fmt.Sprintf("%v.csv", title)))
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{"x", "if"}
	if r.Labels != nil {
		header = append(header, "date")
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for i := range r.IF {
		row := []string{
			strconv.FormatFloat(r.X[i], 'g', -1, 64),
			strconv.FormatFloat(r.IF[i], 'g', -1, 64),
		}
		if r.Labels != nil {
			row = append(row, r.Labels[i].Format(layout))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
