package persist

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// EncodeRecords writes each text as one '\n'-terminated record.
// Texts are written as is; a text containing '\n' splits into several records on load.
func EncodeRecords(w io.Writer, texts []string) error {
	bw := bufio.NewWriter(w)
	for _, text := range texts {
		if _, err := bw.WriteString(text); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
		if err := bw.WriteByte('\n'); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to flush records: %w", err)
	}
	return nil
}

// DecodeRecords splits the input on '\n' and drops records that are blank after trimming.
// A final record without a terminator is kept.
func DecodeRecords(r io.Reader) ([]string, error) {
	br := bufio.NewReader(r)
	records := make([]string, 0)

	for {
		line, err := br.ReadString('\n')
		if text := strings.TrimSuffix(line, "\n"); strings.TrimSpace(text) != "" {
			records = append(records, text)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return records, nil
			}
			return nil, fmt.Errorf("failed to read record: %w", err)
		}
	}
}
