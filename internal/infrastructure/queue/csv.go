package queue

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dompet/finance-gateway/internal/core/domain"
)

// Columns of an import file. The header row is required; column order is
// free and unknown columns are ignored.
const (
	colDate        = "date"
	colType        = "type"
	colAmount      = "amount"
	colDescription = "description"
	colCategory    = "category"
)

// ParseCSV reads transactions from r. Dates are YYYY-MM-DD in loc; an empty
// date means now. Every malformed row is reported, not just the first.
func ParseCSV(r io.Reader, loc *time.Location) ([]Job, error) {
	if loc == nil {
		loc = time.Local
	}
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("import file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, c := range []string{colType, colAmount} {
		if _, ok := cols[c]; !ok {
			return nil, fmt.Errorf("header is missing the %q column", c)
		}
	}

	field := func(rec []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var (
		jobs []Job
		errs []error
	)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// *csv.ParseError already names the line.
			errs = append(errs, err)
			continue
		}
		line, _ := cr.FieldPos(0)

		in := domain.TransactionInput{
			Type:        domain.TransactionType(strings.ToLower(field(rec, colType))),
			Description: field(rec, colDescription),
			CategoryID:  field(rec, colCategory),
		}
		if !in.Type.Valid() {
			errs = append(errs, fmt.Errorf("line %d: type must be income or expense", line))
			continue
		}
		amount, err := decimal.NewFromString(field(rec, colAmount))
		if err != nil || !amount.IsPositive() {
			errs = append(errs, fmt.Errorf("line %d: amount must be a positive number", line))
			continue
		}
		in.Amount = amount
		if d := field(rec, colDate); d != "" {
			in.Date, err = time.ParseInLocation(time.DateOnly, d, loc)
			if err != nil {
				errs = append(errs, fmt.Errorf("line %d: date must be YYYY-MM-DD", line))
				continue
			}
		}
		jobs = append(jobs, Job{Line: line, Input: in})
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return jobs, nil
}
