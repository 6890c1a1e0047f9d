package models

import (
	"bytes"
	"strings"
	"testing"
)

func TestUpdateTaskRequestApply(t *testing.T) {
	tests := []struct {
		name string
		req  UpdateTaskRequest
		want Task
	}{
		{"empty", UpdateTaskRequest{}, Task{ID: 1, Text: "a", Status: "todo"}},
		{"status only", UpdateTaskRequest{Status: Ptr("done")}, Task{ID: 1, Text: "a", Status: "done"}},
		{"text only", UpdateTaskRequest{Text: Ptr("b")}, Task{ID: 1, Text: "b", Status: "todo"}},
		{"both", UpdateTaskRequest{Text: Ptr("b"), Status: Ptr("done")}, Task{ID: 1, Text: "b", Status: "done"}},
		{"empty string is present", UpdateTaskRequest{Text: Ptr("")}, Task{ID: 1, Text: "", Status: "todo"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := Task{ID: 1, Text: "a", Status: "todo"}
			tt.req.Apply(&task)
			if task != tt.want {
				t.Errorf("got %+v, want %+v", task, tt.want)
			}
		})
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	tasks := []Task{{ID: 1, Text: "buy milk", Status: "todo"}, {ID: 2, Text: "a, b", Status: "done"}}
	if err := WriteCSV(&buf, tasks); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	want := "id,text,status\n1,buy milk,todo\n2,\"a, b\",done\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, nil); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Errorf("expected empty array, got %q", buf.String())
	}

	buf.Reset()
	if err := WriteJSON(&buf, []Task{{ID: 3, Text: "x", Status: "todo"}}); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	if !strings.Contains(buf.String(), `"status": "todo"`) {
		t.Errorf("unexpected JSON %q", buf.String())
	}
}
