package mirror

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"fintrack/internal/core"
	"fintrack/internal/log"
)

// Exporter mirrors the current collection and goal into a Google Sheets
// spreadsheet. Write-only: the sheet is a human-readable snapshot, never a
// source of truth, and every export overwrites the previous one.
type Exporter struct {
	svc              *gsheet.Service
	spreadsheetID    string
	transactionsTab  string
	goalTab          string
	logger           *log.Logger
}

// NewFromEnv creates an exporter from the environment.
// Required: GOOGLE_SPREADSHEET_ID plus service account credentials in
// GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or
// GOOGLE_APPLICATION_CREDENTIALS.
// Optional tab names: GOOGLE_TRANSACTIONS_TAB (default "Transactions"),
// GOOGLE_GOAL_TAB (default "Goal").
func NewFromEnv(ctx context.Context) (*Exporter, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	transactionsTab := strings.TrimSpace(os.Getenv("GOOGLE_TRANSACTIONS_TAB"))
	if transactionsTab == "" {
		transactionsTab = "Transactions"
	}
	goalTab := strings.TrimSpace(os.Getenv("GOOGLE_GOAL_TAB"))
	if goalTab == "" {
		goalTab = "Goal"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Exporter{
		svc:             svc,
		spreadsheetID:   spreadsheetID,
		transactionsTab: transactionsTab,
		goalTab:         goalTab,
		logger:          log.New("mirror"),
	}, nil
}

// newSheetsService initializes a Sheets service using service account
// credentials from GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE,
// or GOOGLE_APPLICATION_CREDENTIALS.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error
	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// Export overwrites the spreadsheet tabs with the given snapshot.
func (e *Exporter) Export(ctx context.Context, records []core.Transaction, goal core.Goal, hasGoal bool) error {
	if e.svc == nil {
		return errors.New("sheets service not initialized")
	}

	if err := e.clearTab(ctx, e.transactionsTab); err != nil {
		return err
	}
	if err := e.writeTransactions(ctx, records); err != nil {
		return err
	}
	if hasGoal {
		if err := e.writeGoal(ctx, goal); err != nil {
			return err
		}
	}

	e.logger.InfoContext(ctx, "collection mirrored", "records", len(records), "goal", hasGoal)
	return nil
}

func (e *Exporter) clearTab(ctx context.Context, tab string) error {
	rng := fmt.Sprintf("%s!A:Z", tab)
	_, err := e.svc.Spreadsheets.Values.Clear(e.spreadsheetID, rng, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("clear %s: %w", rng, err)
	}
	return nil
}

func (e *Exporter) writeTransactions(ctx context.Context, records []core.Transaction) error {
	values := make([][]any, 0, len(records)+1)
	values = append(values, []any{
		"ID", "Date", "Description", "Amount", "Category", "Subcategory",
		"Type", "Note", "Recurrent", "Status", "Last Edited",
	})
	for _, t := range records {
		values = append(values, []any{
			t.ID, t.Date.ISO(), t.Description, t.Amount.String(),
			t.Category, t.SubCategory, string(t.Type), t.Note,
			t.Recurrent, string(t.Status), t.LastEdited.UTC().Format("2006-01-02 15:04:05"),
		})
	}

	rng := fmt.Sprintf("%s!A1", e.transactionsTab)
	vr := &gsheet.ValueRange{Values: values}
	_, err := e.svc.Spreadsheets.Values.Update(e.spreadsheetID, rng, vr).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write transactions to %s: %w", e.transactionsTab, err)
	}
	return nil
}

func (e *Exporter) writeGoal(ctx context.Context, goal core.Goal) error {
	vr := &gsheet.ValueRange{Values: [][]any{
		{"Name", "Target", "Saved"},
		{goal.Name, goal.Target.String(), goal.Saved.String()},
	}}
	rng := fmt.Sprintf("%s!A1", e.goalTab)
	_, err := e.svc.Spreadsheets.Values.Update(e.spreadsheetID, rng, vr).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write goal to %s: %w", e.goalTab, err)
	}
	return nil
}
