package sheets

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"
)

// SheetTitle is the worksheet every station appends its tickets to.
const SheetTitle = "Weigh Tickets"

// HeaderRow is the fixed header of the export worksheet. Ticket rows are
// built in this column order.
var HeaderRow = []interface{}{
	"Ticket Number",
	"Customer",
	"Company",
	"Vehicle ID",
	"Material",
	"Gross Weight",
	"Tare Weight",
	"Net Weight",
	"Unit",
	"Weigh In Time",
	"Weigh Out Time",
	"Status",
	"Notes",
	"Created At",
	"Device ID",
}

// Client appends ticket rows to a Google spreadsheet.
type Client struct {
	svc           *gsheets.Service
	spreadsheetID string
}

func NewClient(ctx context.Context, credentialsFile, spreadsheetID string) (*Client, error) {
	if spreadsheetID == "" {
		return nil, errors.New("spreadsheet id is not configured")
	}

	svc, err := gsheets.NewService(ctx, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Client{svc: svc, spreadsheetID: spreadsheetID}, nil
}

// EnsureSheet creates the ticket worksheet with its header row if the
// spreadsheet does not have one yet.
func (c *Client) EnsureSheet(ctx context.Context) error {
	doc, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to load spreadsheet: %w", err)
	}

	for _, sheet := range doc.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == SheetTitle {
			return nil
		}
	}

	_, err = c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, &gsheets.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheets.Request{{
			AddSheet: &gsheets.AddSheetRequest{
				Properties: &gsheets.SheetProperties{Title: SheetTitle},
			},
		}},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to add worksheet: %w", err)
	}

	return c.append(ctx, [][]interface{}{HeaderRow})
}

// AppendRows appends ticket rows below the existing data.
func (c *Client) AppendRows(ctx context.Context, rows [][]interface{}) error {
	return c.append(ctx, rows)
}

func (c *Client) append(ctx context.Context, rows [][]interface{}) error {
	_, err := c.svc.Spreadsheets.Values.
		Append(c.spreadsheetID, SheetTitle+"!A1", &gsheets.ValueRange{Values: rows}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to append rows: %w", err)
	}
	return nil
}
