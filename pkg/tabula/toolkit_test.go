package tabula

import (
	"encoding/json"
	"testing"
)

func decodeDoc(t *testing.T, payload string) map[string]any {
	t.Helper()
	var doc map[string]any
	if err := json.Unmarshal([]byte(payload), &doc); err != nil {
		t.Fatalf("payload is not JSON: %v\n%s", err, payload)
	}
	return doc
}

func TestToolkitRoundTrip(t *testing.T) {
	tk := NewToolkit(NewSession())

	t.Run("error payload", func(t *testing.T) {
		payload, err := tk.GetDatasetInfo()
		if err != nil {
			t.Fatal(err)
		}
		doc := decodeDoc(t, payload)
		if doc["ok"] != false {
			t.Fatalf("ok = %v", doc["ok"])
		}
		errDoc := doc["error"].(map[string]any)
		if errDoc["code"] != "E1001" {
			t.Fatalf("code = %v", errDoc["code"])
		}
	})

	t.Run("load and execute", func(t *testing.T) {
		payload, err := tk.LoadDataset("iris")
		if err != nil {
			t.Fatal(err)
		}
		doc := decodeDoc(t, payload)
		if doc["ok"] != true {
			t.Fatalf("load failed: %s", payload)
		}

		payload, err = tk.ExecuteCode(`print(df.count())`)
		if err != nil {
			t.Fatal(err)
		}
		doc = decodeDoc(t, payload)
		result := doc["result"].(map[string]any)
		if result["output"] != "150\n" {
			t.Fatalf("output = %v", result["output"])
		}
	})

	t.Run("history document", func(t *testing.T) {
		payload, err := tk.GetExecutionHistory()
		if err != nil {
			t.Fatal(err)
		}
		doc := decodeDoc(t, payload)
		result := doc["result"].(map[string]any)
		if result["count"] != float64(1) {
			t.Fatalf("count = %v", result["count"])
		}
		if result["root"] == "" {
			t.Fatal("missing merkle root")
		}
	})

	t.Run("reset document", func(t *testing.T) {
		payload, err := tk.ResetDataset()
		if err != nil {
			t.Fatal(err)
		}
		doc := decodeDoc(t, payload)
		if doc["ok"] != true {
			t.Fatalf("reset failed: %s", payload)
		}
	})
}
