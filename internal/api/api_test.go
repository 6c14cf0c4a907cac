package api_test

import (
	"bytes"
	"encoding/json"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"stashview/internal/api"
	"stashview/internal/backpack"
	"stashview/internal/index"
	"stashview/internal/models"
	"stashview/internal/render"
	"stashview/internal/stashservice"
	"stashview/internal/testutil"
)

func newTestServer(t *testing.T, authEnabled bool, token string) (*httptest.Server, *index.DB) {
	t.Helper()
	db := testutil.TestDB(t)
	renderer := render.New(nil, render.Options{SlotSize: 18})
	svc := stashservice.New(backpack.DefaultKeys(), renderer,
		slog.New(slog.NewTextHandler(io.Discard, nil)))

	srv := httptest.NewServer(api.NewRouter(db, svc, authEnabled, token, nil))
	t.Cleanup(srv.Close)
	return srv, db
}

func seedBackpack(t *testing.T, db *index.DB) models.BackpackRecord {
	t.Helper()
	rec := models.BackpackRecord{
		UUID:       "aaaa0000-0000-0000-0000-000000000001",
		Owner:      "Steve",
		AccessTime: 1700000000000,
		Slots: map[int]models.ItemStack{
			0: {Slot: 0, ID: "minecraft:flint", Count: 5},
		},
	}
	record, _ := json.Marshal(rec)
	err := db.UpsertStash(index.StashRow{
		Key:        rec.Key(),
		Kind:       models.KindBackpack,
		Source:     "world.dat",
		Owner:      rec.Owner,
		Items:      "minecraft:flint",
		Record:     string(record),
		AccessTime: rec.AccessTime,
	})
	if err != nil {
		t.Fatal(err)
	}
	return rec
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode: %v", err)
		}
	}
	return resp.StatusCode
}

func TestListStashes(t *testing.T) {
	srv, db := newTestServer(t, false, "")
	seedBackpack(t, db)

	var body struct {
		Stashes []api.StashListItem `json:"stashes"`
		Total   int                 `json:"total"`
	}
	if code := getJSON(t, srv.URL+"/stashes", &body); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if body.Total != 1 || len(body.Stashes) != 1 {
		t.Fatalf("body = %+v", body)
	}
	if body.Stashes[0].Owner != "Steve" || body.Stashes[0].Kind != models.KindBackpack {
		t.Errorf("item = %+v", body.Stashes[0])
	}

	// Kind filter with no matches.
	if code := getJSON(t, srv.URL+"/stashes?kind=container", &body); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if body.Total != 0 {
		t.Errorf("container total = %d", body.Total)
	}

	if code := getJSON(t, srv.URL+"/stashes?kind=bogus", nil); code != http.StatusBadRequest {
		t.Errorf("bad kind status = %d", code)
	}
}

func TestGetStash(t *testing.T) {
	srv, db := newTestServer(t, false, "")
	rec := seedBackpack(t, db)

	var body api.StashDetail
	if code := getJSON(t, srv.URL+"/stashes/"+rec.Key(), &body); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if body.Key != rec.Key() {
		t.Errorf("key = %q", body.Key)
	}
	var got models.BackpackRecord
	if err := json.Unmarshal(body.Record, &got); err != nil {
		t.Fatalf("record: %v", err)
	}
	if got.Owner != "Steve" || got.Slots[0].ID != "minecraft:flint" {
		t.Errorf("record = %+v", got)
	}

	if code := getJSON(t, srv.URL+"/stashes/missing", nil); code != http.StatusNotFound {
		t.Errorf("missing status = %d", code)
	}
}

func TestGetStashImage(t *testing.T) {
	srv, db := newTestServer(t, false, "")
	rec := seedBackpack(t, db)

	resp, err := http.Get(srv.URL + "/stashes/" + rec.Key() + "/image")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Errorf("content-type = %q", ct)
	}
	data, _ := io.ReadAll(resp.Body)
	if _, err := png.Decode(bytes.NewReader(data)); err != nil {
		t.Errorf("response is not a PNG: %v", err)
	}
}

func TestSearch(t *testing.T) {
	srv, db := newTestServer(t, false, "")
	seedBackpack(t, db)

	if code := getJSON(t, srv.URL+"/search", nil); code != http.StatusBadRequest {
		t.Errorf("missing q status = %d", code)
	}

	var body struct {
		Results []api.SearchHit `json:"results"`
	}
	if code := getJSON(t, srv.URL+"/search?q=flint", &body); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if len(body.Results) != 1 || body.Results[0].Key != "aaaa0000-0000-0000-0000-000000000001" {
		t.Errorf("results = %+v", body.Results)
	}
}

func TestAuthMiddleware(t *testing.T) {
	srv, db := newTestServer(t, true, "secret")
	seedBackpack(t, db)

	resp, err := http.Get(srv.URL + "/stashes")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("no token status = %d", resp.StatusCode)
	}

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/stashes", nil)
	req.Header.Set("Authorization", "Bearer secret")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("token status = %d", resp.StatusCode)
	}
}
