package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strconv"

	"github.com/churnlab/churnscope/schema"
)

// WriteSample writes a randomly generated customer CSV with the required
// columns. A fixed seed reproduces the same dataset.
func WriteSample(w io.Writer, rows int, seed int64) error {
	rng := rand.New(rand.NewSource(seed))
	writer := csv.NewWriter(w)

	if err := writer.Write(schema.RequiredColumns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i := 0; i < rows; i++ {
		record := []string{
			fmt.Sprintf("Customer %d", i+1),
			strconv.Itoa(1 + rng.Intn(19)),
			strconv.Itoa(100 + rng.Intn(4900)),
			strconv.Itoa(1 + rng.Intn(49)),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteSampleFile writes a sample dataset to a new file at path.
func WriteSampleFile(path string, rows int, seed int64) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create sample file: %w", err)
	}
	defer func() { _ = f.Close() }()
	return WriteSample(f, rows, seed)
}
