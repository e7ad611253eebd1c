package queue

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/dompet/finance-gateway/internal/core/domain"
)

type stubCreator struct {
	mu       sync.Mutex
	created  []domain.TransactionInput
	inFlight atomic.Int32
	peak     atomic.Int32
	failOn   string
}

func (s *stubCreator) CreateTransaction(ctx context.Context, in domain.TransactionInput) (*domain.TransactionResult, error) {
	n := s.inFlight.Add(1)
	defer s.inFlight.Add(-1)
	for {
		p := s.peak.Load()
		if n <= p || s.peak.CompareAndSwap(p, n) {
			break
		}
	}
	time.Sleep(time.Millisecond)

	if in.Description == s.failOn {
		return nil, &domain.APIError{Status: 422, Message: "rejected"}
	}
	s.mu.Lock()
	s.created = append(s.created, in)
	s.mu.Unlock()
	return &domain.TransactionResult{Success: true, Transaction: &domain.Transaction{ID: "id-" + in.Description}}, nil
}

func jobsFor(descs ...string) []Job {
	jobs := make([]Job, len(descs))
	for i, d := range descs {
		jobs[i] = Job{Line: i + 2, Input: domain.TransactionInput{
			Type:        domain.TransactionExpense,
			Amount:      decimal.NewFromInt(1000),
			Description: d,
		}}
	}
	return jobs
}

func TestImporter_RunsEveryJobInOrder(t *testing.T) {
	creator := &stubCreator{failOn: "c"}
	im := NewImporter(2, creator, zerolog.Nop())

	results := im.Run(context.Background(), jobsFor("a", "b", "c", "d", "e"))
	if len(results) != 5 {
		t.Fatalf("expected 5 results, got %d", len(results))
	}
	for i, r := range results {
		if r.Line != i+2 {
			t.Fatalf("result %d has line %d", i, r.Line)
		}
	}
	if results[2].Err == nil || results[2].Transaction != nil {
		t.Fatalf("expected failure on line 4, got %+v", results[2])
	}
	if results[4].Err != nil || results[4].Transaction.ID != "id-e" {
		t.Fatalf("unexpected last result: %+v", results[4])
	}
	if len(creator.created) != 4 {
		t.Fatalf("expected 4 creations, got %d", len(creator.created))
	}
	if peak := creator.peak.Load(); peak > 2 {
		t.Fatalf("more than 2 requests in flight: %d", peak)
	}
}

func TestImporter_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	creator := &stubCreator{}
	results := NewImporter(0, creator, zerolog.Nop()).Run(ctx, jobsFor("a", "b"))
	for _, r := range results {
		if !errors.Is(r.Err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %+v", r)
		}
	}
	if len(creator.created) != 0 {
		t.Fatalf("nothing should be created, got %d", len(creator.created))
	}
}

func TestParseCSV(t *testing.T) {
	src := "Date,Type,Amount,Description\n" +
		"2024-05-01,income,1500000,Gaji\n" +
		",Expense,25000.50,\"Kopi, susu\"\n"

	jobs, err := ParseCSV(strings.NewReader(src), time.UTC)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(jobs))
	}
	if jobs[0].Line != 2 || !jobs[0].Input.Date.Equal(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected first job: %+v", jobs[0])
	}
	second := jobs[1].Input
	if second.Type != domain.TransactionExpense || !second.Date.IsZero() || second.Description != "Kopi, susu" {
		t.Fatalf("unexpected second job: %+v", second)
	}
	if !second.Amount.Equal(decimal.RequireFromString("25000.5")) {
		t.Fatalf("amount = %s", second.Amount)
	}
}

func TestParseCSV_Errors(t *testing.T) {
	if _, err := ParseCSV(strings.NewReader(""), nil); err == nil {
		t.Fatal("expected error for empty file")
	}
	if _, err := ParseCSV(strings.NewReader("date,description\n"), nil); err == nil || !strings.Contains(err.Error(), `"type"`) {
		t.Fatalf("expected missing column error, got %v", err)
	}

	src := "type,amount,date\n" +
		"gift,10,\n" +
		"income,-1,\n" +
		"income,10,01/05/2024\n"
	_, err := ParseCSV(strings.NewReader(src), nil)
	if err == nil {
		t.Fatal("expected row errors")
	}
	for _, want := range []string{"line 2", "line 3", "line 4"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}
