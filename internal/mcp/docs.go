package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `dashlog keeps a log of delivery work sessions and rolls them up by week.

Concepts:
- Zone: a named work area. Only active zones are used for new sessions; deactivating keeps history.
- Session: one work period in a zone and time block (Breakfast, Lunch, Dinner, Late Night) with
  start/end time, profit, odometer miles, orders, dash minutes and active minutes.
- Week: sessions are bucketed by the week their start time falls in (Monday start by default).

Typical workflow:
1) list_zones (add_zone if the area is new).
2) preview_session to check the numbers, then log_session. Zone and time block default to the last used.
3) If log_session returns UNCONFIRMED_WARNINGS, show the warnings and retry with force=true only when the user agrees.
4) week_summary for this week (offset -1 for last week), week_history for the trend.
5) export_data / import_data to move data between devices.

Times accept RFC 3339 or local "2006-01-02 15:04". An end earlier than the start means the session crossed midnight.

Docs:
- dashlog://docs/metrics (how every derived number is computed)
- dashlog://docs/transfer (export and import file formats)
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "dashlog://docs/metrics",
		Name:        "docs_metrics",
		Title:       "Derived metrics",
		Description: "How session and weekly metrics are computed and when they are blank.",
		Content: `# Derived metrics

Derived values are computed on every read and never stored.

## Per session

| Metric | Formula |
| --- | --- |
| total miles | end_miles - start_miles |
| total minutes | minutes between start and end, rounded half up; an end before the start adds 24 hours |
| wait minutes | max(dash_minutes - active_minutes, 0) |
| $/hour | profit / (total minutes / 60), blank when total minutes <= 0 |
| $/mile | profit / total miles, blank when total miles <= 0 |

## Warnings

Saving is refused with UNCONFIRMED_WARNINGS until the caller passes force=true when:

- the end time is earlier than the start time (crossing midnight),
- total time is zero or negative,
- total miles is zero or negative,
- active minutes exceed dash minutes,
- end miles are below start miles.

## Per week

Sessions belong to the week containing their start time. Weekly $/hour is the profit sum divided
by the summed session hours, not the average of session rates. Miles and orders are plain sums.
`,
	},
	{
		URI:         "dashlog://docs/transfer",
		Name:        "docs_transfer",
		Title:       "Export and import formats",
		Description: "CSV columns, the JSON envelope and import rules.",
		Content: `# Export and import

## CSV

Columns: ` + "`id,zone,time_block,start_time,end_time,profit,start_miles,end_miles,orders,dash_minutes,active_minutes,week_start`" + `
followed by the derived columns (total_miles, total_minutes, wait_minutes, dollars_per_hour,
dollars_per_mile). Times are UTC ISO-8601 with milliseconds. Money and miles use two decimals.
On import header names are matched ignoring case and column order; derived columns are ignored.

## JSON

` + "`{\"app\":\"dashlog\",\"version\":1,\"exported_at\":...,\"zones\":[...],\"sessions\":[...]}`" + `. Each session names its zone.

## Import rules

- The whole file is validated first; one bad row means nothing is written.
- Import is additive. Existing sessions are never replaced.
- Zones are matched by name ignoring case. Missing zones are created, inactive ones reactivated.
- A session whose zone no longer exists exports with zone "Unknown".
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		doc := doc

		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
