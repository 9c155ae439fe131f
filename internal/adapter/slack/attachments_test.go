package slack

import (
	"encoding/json"
	"testing"

	"spreedly-bot/internal/domain/model"
)

func TestRender(t *testing.T) {
	payload := model.DisplayPayload{
		Accent: model.AccentGood,
		Groups: []model.DisplayGroup{
			{
				Label: "Spreedly response for gateway with token T1",
				Fields: []model.FieldEntry{
					{Title: "token", Value: "T1", Short: true},
					{Title: "tags", Value: "null", Short: true},
				},
			},
			{
				Label: "details",
				Fields: []model.FieldEntry{
					{Title: "active", Value: true, Short: true},
					{Title: "count", Value: int64(3), Short: true},
				},
			},
			{Label: "empty", Fields: []model.FieldEntry{}},
		},
	}

	data, err := json.Marshal(Render(payload))
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	want := `{"response_type":"in_channel","attachments":[` +
		`{"fallback":"Spreedly response for gateway with token T1","color":"good","title":"Spreedly response for gateway with token T1","fields":[{"title":"token","value":"T1","short":true},{"title":"tags","value":"null","short":true}]},` +
		`{"fallback":"details","color":"good","title":"details","fields":[{"title":"active","value":"true","short":true},{"title":"count","value":"3","short":true}]},` +
		`{"fallback":"empty","color":"good","title":"empty","fields":[]}]}`
	if string(data) != want {
		t.Errorf("Render() =\n%s\nwant\n%s", data, want)
	}
}

func TestRender_NoGroups(t *testing.T) {
	data, err := json.Marshal(Render(model.DisplayPayload{}))
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(data) != `{"response_type":"in_channel","attachments":[]}` {
		t.Errorf("Render() = %s", data)
	}
}
