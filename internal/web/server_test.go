package web_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/Zycke/star-mercs/internal/config"
	"github.com/Zycke/star-mercs/internal/game/rules"
	"github.com/Zycke/star-mercs/internal/game/session"
	"github.com/Zycke/star-mercs/internal/web"
)

// fixedSrc is a deterministic dice source: a d10 reads val+1.
type fixedSrc struct{ val int }

func (f fixedSrc) Intn(_ int) int { return f.val }

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	game := config.GameConfig{EventBufferSize: 8, MaxSessions: 2}
	srv := web.NewServer(game, rules.Default(), fixedSrc{val: 9}, zaptest.NewLogger(t))
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))
	resp, err := http.Post(url, "application/json", &buf)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func createSession(t *testing.T, ts *httptest.Server) string {
	t.Helper()
	resp := postJSON(t, ts.URL+"/api/sessions", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created struct {
		ID string `json:"id"`
	}
	decodeBody(t, resp, &created)
	require.NotEmpty(t, created.ID)
	return created.ID
}

func addUnit(t *testing.T, ts *httptest.Server, sessionID string, spec map[string]any) string {
	t.Helper()
	resp := postJSON(t, fmt.Sprintf("%s/api/sessions/%s/units", ts.URL, sessionID), spec)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var view struct {
		ID string `json:"id"`
	}
	decodeBody(t, resp, &view)
	return view.ID
}

func nextPhase(t *testing.T, ts *httptest.Server, sessionID string) string {
	t.Helper()
	resp := postJSON(t, fmt.Sprintf("%s/api/sessions/%s/phase/next", ts.URL, sessionID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out struct {
		Phase string `json:"phase"`
	}
	decodeBody(t, resp, &out)
	return out.Phase
}

// TestFullRoundOverHTTP drives one round through the JSON API: create a
// session, add two units, set orders, resolve an attack during tactical,
// and verify the consolidation results in the state snapshot.
func TestFullRoundOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	id := createSession(t, ts)

	defenderID := addUnit(t, ts, id, map[string]any{
		"name": "bravo", "team": "blue", "rating": "experienced", "strength": 10,
	})
	attackerID := addUnit(t, ts, id, map[string]any{
		"name": "alpha", "team": "red", "rating": "experienced", "strength": 10,
		"weapons": []map[string]any{{
			"id": "w1", "name": "autocannon", "attackType": "soft",
			"damage": 3, "range": 5, "targetId": defenderID,
		}},
	})

	assert.Equal(t, "orders", nextPhase(t, ts, id))
	for _, unitID := range []string{attackerID, defenderID} {
		resp := postJSON(t, fmt.Sprintf("%s/api/sessions/%s/orders", ts.URL, id), map[string]string{
			"unitId": unitID, "order": rules.OrderHold,
		})
		resp.Body.Close()
		require.Equal(t, http.StatusNoContent, resp.StatusCode)
	}

	assert.Equal(t, "tactical", nextPhase(t, ts, id))
	resp := postJSON(t, fmt.Sprintf("%s/api/sessions/%s/attack", ts.URL, id), map[string]string{
		"attackerId": attackerID, "weaponId": "w1",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var outcome struct {
		Valid  bool `json:"Valid"`
		Roll   int  `json:"Roll"`
		Damage struct {
			Final int `json:"Final"`
		} `json:"Damage"`
	}
	decodeBody(t, resp, &outcome)
	assert.True(t, outcome.Valid)
	assert.Equal(t, 10, outcome.Roll)
	assert.Equal(t, 4, outcome.Damage.Final)

	assert.Equal(t, "consolidation", nextPhase(t, ts, id))

	stateResp, err := http.Get(fmt.Sprintf("%s/api/sessions/%s", ts.URL, id))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, stateResp.StatusCode)
	var state struct {
		Round int `json:"round"`
		Units []struct {
			ID       string `json:"id"`
			Strength struct {
				Value int `json:"value"`
			} `json:"strength"`
		} `json:"units"`
	}
	decodeBody(t, stateResp, &state)
	assert.Equal(t, 1, state.Round)
	require.Len(t, state.Units, 2)
	for _, u := range state.Units {
		if u.ID == defenderID {
			assert.Equal(t, 6, u.Strength.Value, "consolidation must drain the queued damage")
		}
	}
}

func TestSessionLimit(t *testing.T) {
	ts := newTestServer(t)
	createSession(t, ts)
	createSession(t, ts)

	resp := postJSON(t, ts.URL+"/api/sessions", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestUnknownSession(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/api/sessions/no-such-id")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAddUnitBadRating(t *testing.T) {
	ts := newTestServer(t)
	id := createSession(t, ts)

	resp := postJSON(t, fmt.Sprintf("%s/api/sessions/%s/units", ts.URL, id), map[string]any{
		"name": "alpha", "team": "red", "rating": "wizard", "strength": 10,
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDeleteSession(t *testing.T) {
	ts := newTestServer(t)
	id := createSession(t, ts)

	req, err := http.NewRequest(http.MethodDelete, fmt.Sprintf("%s/api/sessions/%s", ts.URL, id), nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	getResp, err := http.Get(fmt.Sprintf("%s/api/sessions/%s", ts.URL, id))
	require.NoError(t, err)
	getResp.Body.Close()
	assert.Equal(t, http.StatusNotFound, getResp.StatusCode)
}

// TestWebsocketEvents attaches a websocket client and checks that a phase
// transition is streamed to it.
func TestWebsocketEvents(t *testing.T) {
	ts := newTestServer(t)
	id := createSession(t, ts)

	wsURL := strings.Replace(ts.URL, "http://", "ws://", 1) + "/ws/" + id
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	// The feed attaches asynchronously after the handshake, so keep
	// nudging the phase clock until an event comes through.
	var event session.Event
	received := false
	for i := 0; i < 20 && !received; i++ {
		nextPhase(t, ts, id)
		_ = conn.SetReadDeadline(time.Now().Add(250 * time.Millisecond))
		if err := conn.ReadJSON(&event); err == nil {
			received = true
		}
	}
	require.True(t, received, "no event arrived over the websocket")
	assert.Equal(t, session.EventPhase, event.Kind)
}
