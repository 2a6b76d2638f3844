package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"
)

func putJSON(t *testing.T, client *http.Client, rawURL string, payload interface{}, token string) (int, map[string]interface{}) {
	t.Helper()
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("encoding payload: %v", err)
	}
	return doRequest(t, client, http.MethodPut, rawURL, bytes.NewReader(data), "application/json", token)
}

func TestReviewHandler_SubmitAndList(t *testing.T) {
	srv, client := newTestServer(t, nil)
	token := loginToken(t, client, srv.URL)

	status, body := postJSON(t, client, srv.URL+"/api/reviews",
		map[string]interface{}{"rating": 5, "comment": "Wonderful trails"}, token)
	if status != http.StatusCreated {
		t.Fatalf("submit status = %d, body %v", status, body)
	}
	if body["customer_name"] != "Rick Ranger" {
		t.Errorf("customer_name = %v", body["customer_name"])
	}

	// An anonymous review lands under the guest identity
	status, body = postJSON(t, client, srv.URL+"/api/reviews",
		map[string]interface{}{"rating": 3, "comment": "Crowded on weekends"}, "")
	if status != http.StatusCreated {
		t.Fatalf("guest submit status = %d", status)
	}
	if body["customer_name"] != "Guest Visitor" {
		t.Errorf("guest customer_name = %v", body["customer_name"])
	}

	status, body = getJSON(t, client, srv.URL+"/api/reviews")
	if status != http.StatusOK {
		t.Fatalf("list status = %d", status)
	}
	reviews, _ := body["reviews"].([]interface{})
	if len(reviews) != 2 {
		t.Fatalf("got %d reviews, want 2", len(reviews))
	}
	newest, _ := reviews[0].(map[string]interface{})
	if newest["comment"] != "Crowded on weekends" {
		t.Errorf("newest review = %v", newest["comment"])
	}
}

func TestReviewHandler_SubmitInvalid(t *testing.T) {
	srv, client := newTestServer(t, nil)

	status, body := postJSON(t, client, srv.URL+"/api/reviews",
		map[string]interface{}{"rating": 9, "comment": "x"}, "")
	if status != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", status)
	}
	if body["message"] != "rating must be between 1 and 5" {
		t.Errorf("message = %v", body["message"])
	}
}

func TestReviewHandler_Edit(t *testing.T) {
	srv, client := newTestServer(t, nil)
	token := loginToken(t, client, srv.URL)

	_, body := postJSON(t, client, srv.URL+"/api/reviews",
		map[string]interface{}{"rating": 4, "comment": "Good"}, token)
	reviewID, _ := body["id"].(string)
	if reviewID == "" {
		t.Fatal("review id missing")
	}

	// Editing needs a token
	status, _ := putJSON(t, client, srv.URL+"/api/reviews/"+reviewID,
		map[string]string{"comment": "Better"}, "")
	if status != http.StatusUnauthorized {
		t.Fatalf("anonymous edit status = %d, want 401", status)
	}

	status, body = putJSON(t, client, srv.URL+"/api/reviews/"+reviewID,
		map[string]string{"comment": "Even better on a second visit"}, token)
	if status != http.StatusOK {
		t.Fatalf("edit status = %d, body %v", status, body)
	}
	if body["comment"] != "Even better on a second visit" {
		t.Errorf("comment = %v", body["comment"])
	}
	if body["edited_at"] == nil {
		t.Error("edited_at missing after edit")
	}

	// Unknown review
	status, _ = putJSON(t, client, srv.URL+"/api/reviews/REV-missing",
		map[string]string{"comment": "x"}, token)
	if status != http.StatusNotFound {
		t.Errorf("unknown review edit status = %d, want 404", status)
	}
}
