package llm

import (
	"strings"
	"testing"

	"google.golang.org/genai"
)

func exerciseSchema() *Schema {
	return Obj(map[string]*Schema{
		"name":     Str(),
		"reps":     Str(),
		"category": Enum("strength", "cardio"),
		"sets":     Int(),
		"weight":   Num(),
		"isRest":   Bool(),
		"tags":     Arr(Str()),
	}).Optional("weight")
}

func TestSchema_ValidateJSON(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr string
	}{
		{"valid", `{"name":"Squat","reps":"3x12","category":"strength","sets":3,"isRest":false,"tags":["legs"]}`, ""},
		{"optional present", `{"name":"Squat","reps":"3x12","category":"cardio","sets":3,"weight":12.5,"isRest":false,"tags":[]}`, ""},
		{"missing required", `{"name":"Squat","category":"strength","sets":3,"isRest":false,"tags":[]}`, `missing required field "reps"`},
		{"bad enum", `{"name":"Squat","reps":"3x12","category":"yoga","sets":3,"isRest":false,"tags":[]}`, "is not one of"},
		{"fractional integer", `{"name":"Squat","reps":"3x12","category":"strength","sets":3.5,"isRest":false,"tags":[]}`, "expected integer"},
		{"null field", `{"name":null,"reps":"3x12","category":"strength","sets":3,"isRest":false,"tags":[]}`, "got null"},
		{"wrong item type", `{"name":"Squat","reps":"3x12","category":"strength","sets":3,"isRest":false,"tags":[1]}`, "$.tags[0]: expected string"},
		{"not json", `Sure! Here is your plan`, "not valid JSON"},
		{"trailing data", `{"name":"Squat","reps":"3x12","category":"strength","sets":3,"isRest":false,"tags":[]} {}`, "trailing data"},
		{"array instead of object", `[]`, "expected object"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := exerciseSchema().ValidateJSON(tt.raw)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestSchema_ToGenai(t *testing.T) {
	gs := exerciseSchema().toGenai()

	if gs.Type != genai.TypeObject {
		t.Fatalf("expected object type, got %v", gs.Type)
	}
	if got := gs.Properties["category"]; got.Type != genai.TypeString || got.Format != "enum" || len(got.Enum) != 2 {
		t.Errorf("unexpected enum conversion: %+v", got)
	}
	if gs.Properties["tags"].Items.Type != genai.TypeString {
		t.Errorf("expected string items")
	}
	for _, r := range gs.Required {
		if r == "weight" {
			t.Errorf("weight should be optional")
		}
	}
	if len(gs.Required) != 6 {
		t.Errorf("expected 6 required fields, got %v", gs.Required)
	}
}

func TestImage_DataURI(t *testing.T) {
	img := Image{MIMEType: "image/png", Data: []byte("hi")}
	if got := img.DataURI(); got != "data:image/png;base64,aGk=" {
		t.Errorf("unexpected data uri %q", got)
	}
}
