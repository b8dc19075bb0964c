package gateway

import (
	"testing"

	"github.com/codr1/leaguedesk/internal/models"
)

func TestDecodeListEnvelopes(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		params    ListParams
		keys      []string
		wantItems int
		wantPage  int
		wantTotal int
		wantPages int
		counted   bool
	}{
		{
			name:      "teams_meta",
			body:      `{"teams":[{"_id":"a"},{"_id":"b"}],"meta":{"currentPage":2,"limit":2,"total":5,"totalPages":3}}`,
			keys:      []string{"teams"},
			wantItems: 2, wantPage: 2, wantTotal: 5, wantPages: 3, counted: true,
		},
		{
			name:      "data_pagination",
			body:      `{"data":[{"_id":"a"}],"pagination":{"page":1,"limit":10,"total":1,"pages":1}}`,
			wantItems: 1, wantPage: 1, wantTotal: 1, wantPages: 1, counted: true,
		},
		{
			name:      "bare_array_synthesized",
			body:      `[{"_id":"a"},{"_id":"b"},{"_id":"c"}]`,
			params:    ListParams{Limit: 2},
			wantItems: 3, wantPage: 1, wantTotal: 3, wantPages: 2,
		},
		{
			name:      "status_data",
			body:      `{"status":"success","data":[{"_id":"a"}]}`,
			wantItems: 1, wantPage: 1, wantTotal: 1, wantPages: 1,
		},
		{
			name:      "nested_data",
			body:      `{"data":{"teams":[{"_id":"a"},{"_id":"b"}]}}`,
			keys:      []string{"teams"},
			wantItems: 2, wantPage: 1, wantTotal: 2, wantPages: 1,
		},
		{
			name:      "empty",
			body:      `{"teams":[],"meta":{"currentPage":1,"limit":10,"total":0,"totalPages":0}}`,
			keys:      []string{"teams"},
			wantItems: 0, wantPage: 1, wantTotal: 0, wantPages: 1, counted: true,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			page, err := decodeList[models.Team]([]byte(test.body), test.params, test.keys...)
			if err != nil {
				t.Fatalf("decodeList: %v", err)
			}
			if len(page.Items) != test.wantItems {
				t.Fatalf("items = %d, want %d", len(page.Items), test.wantItems)
			}
			if page.Page != test.wantPage || page.Total != test.wantTotal || page.Pages != test.wantPages {
				t.Fatalf("page = %d total = %d pages = %d, want %d %d %d",
					page.Page, page.Total, page.Pages, test.wantPage, test.wantTotal, test.wantPages)
			}
			if page.Counted != test.counted {
				t.Fatalf("counted = %v, want %v", page.Counted, test.counted)
			}
		})
	}
}

func TestDecodeItemEnvelopes(t *testing.T) {
	bodies := []string{
		`{"data":{"_id":"t1","name":"Lions"}}`,
		`{"message":"Team created","team":{"_id":"t1","name":"Lions"}}`,
		`{"_id":"t1","name":"Lions"}`,
	}
	for _, body := range bodies {
		team, err := decodeItem[models.Team]([]byte(body), "team")
		if err != nil {
			t.Fatalf("decodeItem(%s): %v", body, err)
		}
		if team.ID != "t1" || team.Name != "Lions" {
			t.Fatalf("decodeItem(%s) = %+v", body, team)
		}
	}
}

func TestPayloadFieldsKeyStyles(t *testing.T) {
	body := map[string]any{
		"name": "Lions",
		"staf": map[string]any{
			"medecins": map[string]string{"medc1": "Dr A"},
		},
		"founded": 1990,
		"skip":    nil,
	}

	tests := []struct {
		style KeyStyle
		want  []FormField
	}{
		{DotKeys, []FormField{{"founded", "1990"}, {"name", "Lions"}, {"staf.medecins.medc1", "Dr A"}}},
		{BracketKeys, []FormField{{"founded", "1990"}, {"name", "Lions"}, {"staf[medecins][medc1]", "Dr A"}}},
	}
	for _, test := range tests {
		fields, err := JSONPayload(body).Fields(test.style)
		if err != nil {
			t.Fatalf("Fields: %v", err)
		}
		if len(fields) != len(test.want) {
			t.Fatalf("fields = %+v, want %+v", fields, test.want)
		}
		for i := range fields {
			if fields[i] != test.want[i] {
				t.Fatalf("field %d = %+v, want %+v", i, fields[i], test.want[i])
			}
		}
	}
}

func TestListParamsOmitsZeroValues(t *testing.T) {
	values := ListParams{Page: 2, Search: "  lions "}.Values()
	if values.Encode() != "page=2&search=lions" {
		t.Fatalf("Values() = %q", values.Encode())
	}
	if encoded := (ListParams{}).Values().Encode(); encoded != "" {
		t.Fatalf("zero params encoded %q", encoded)
	}
}

func TestParseKeyStyle(t *testing.T) {
	if style, err := ParseKeyStyle("bracket"); err != nil || style != BracketKeys {
		t.Fatalf("ParseKeyStyle(bracket) = %v, %v", style, err)
	}
	if style, err := ParseKeyStyle(""); err != nil || style != DotKeys {
		t.Fatalf("ParseKeyStyle('') = %v, %v", style, err)
	}
	if _, err := ParseKeyStyle("colon"); err == nil {
		t.Fatalf("expected error for unknown style")
	}
}
