// Package google mirrors ledger entries to a Google Sheets spreadsheet.
package google

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/tongxing977-max/project50k-backend/internal/core"
	ports "github.com/tongxing977-max/project50k-backend/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

var _ ports.LedgerWriter = (*Client)(nil)

// NewClient builds a Sheets client from a service-account credentials file.
func NewClient(ctx context.Context, credentialsFile, spreadsheetID, sheetName string) (*Client, error) {
	if spreadsheetID == "" {
		return nil, errors.New("spreadsheet ID is required")
	}
	if credentialsFile == "" {
		return nil, errors.New("credentials file is required")
	}
	if _, err := os.Stat(credentialsFile); err != nil {
		return nil, fmt.Errorf("credentials file: %w", err)
	}

	svc, err := gsheet.NewService(ctx, goption.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

// Append writes one ledger row: id, date, name, amount, kind, category,
// note. Returns the updated range as the row reference.
func (c *Client) Append(ctx context.Context, t core.Transaction) (string, error) {
	values := &gsheet.ValueRange{
		Values: [][]any{{
			strconv.FormatInt(t.ID, 10),
			t.Date.String(),
			t.Name,
			t.Amount.Yuan(),
			string(t.Kind),
			t.Category,
			t.Note,
		}},
	}

	resp, err := c.svc.Spreadsheets.Values.
		Append(c.spreadsheetID, c.sheetName+"!A:G", values).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("append to sheet: %w", err)
	}
	if resp.Updates == nil {
		return "", nil
	}
	return resp.Updates.UpdatedRange, nil
}
