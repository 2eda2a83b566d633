package web

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Zycke/star-mercs/internal/game/hexgrid"
	"github.com/Zycke/star-mercs/internal/game/rules"
	"github.com/Zycke/star-mercs/internal/game/session"
	"github.com/Zycke/star-mercs/internal/game/trait"
	"github.com/Zycke/star-mercs/internal/game/unit"
)

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Warn("encoding response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return false
	}
	return true
}

// sessionFor resolves the {id} path variable; a miss writes the 404 itself.
func (s *Server) sessionFor(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id := mux.Vars(r)["id"]
	sess, ok := s.Session(id)
	if !ok {
		s.writeJSON(w, http.StatusNotFound, errorResponse{Error: "session not found"})
		return nil, false
	}
	return sess, true
}

// Wire DTOs.

type poolView struct {
	Value int `json:"value"`
	Max   int `json:"max"`
}

type supplySpec struct {
	Value    int `json:"value"`
	Capacity int `json:"capacity"`
	Usage    int `json:"usage"`
}

type traitSpec struct {
	ID     string `json:"id"`
	Value  int    `json:"value,omitempty"`
	Active *bool  `json:"active,omitempty"`
}

type weaponSpec struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	AttackType string `json:"attackType"`
	Damage     int    `json:"damage"`
	Range      int    `json:"range"`
	Indirect   bool   `json:"indirect,omitempty"`
	Area       bool   `json:"area,omitempty"`
	Accurate   int    `json:"accurate,omitempty"`
	Inaccurate int    `json:"inaccurate,omitempty"`
	TargetID   string `json:"targetId,omitempty"`
}

type coordSpec struct {
	Col int `json:"col"`
	Row int `json:"row"`
}

type unitSpec struct {
	Name      string       `json:"name"`
	Team      string       `json:"team"`
	Rating    string       `json:"rating"`
	Strength  int          `json:"strength"`
	Supply    *supplySpec  `json:"supply,omitempty"`
	Sensors   int          `json:"sensors,omitempty"`
	Signature int          `json:"signature,omitempty"`
	EWAR      int          `json:"ewar,omitempty"`
	Comms     int          `json:"comms,omitempty"`
	Traits    []traitSpec  `json:"traits,omitempty"`
	Weapons   []weaponSpec `json:"weapons,omitempty"`
	Position  *coordSpec   `json:"position,omitempty"`
}

type unitView struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Team       string     `json:"team"`
	Rating     string     `json:"rating"`
	Strength   poolView   `json:"strength"`
	Readiness  poolView   `json:"readiness"`
	Supply     supplySpec `json:"supply"`
	Morale     string     `json:"morale"`
	Order      string     `json:"order,omitempty"`
	Disordered bool       `json:"disordered,omitempty"`
	Destroyed  bool       `json:"destroyed,omitempty"`
	Position   *coordSpec `json:"position,omitempty"`
}

type sessionView struct {
	Round int        `json:"round"`
	Phase string     `json:"phase"`
	Units []unitView `json:"units"`
}

func buildUnit(spec unitSpec) (*unit.Unit, error) {
	rating, err := rules.ParseRating(spec.Rating)
	if err != nil {
		return nil, err
	}

	u := unit.New(spec.Name, spec.Team, rating, spec.Strength)
	u.Sensors = spec.Sensors
	u.Signature = spec.Signature
	u.EWAR = spec.EWAR
	u.Comms = spec.Comms
	if spec.Supply != nil {
		u.Supply = unit.SupplyState{
			Value:    spec.Supply.Value,
			Capacity: spec.Supply.Capacity,
			Usage:    spec.Supply.Usage,
		}
	}

	for _, ts := range spec.Traits {
		id, err := trait.ParseID(ts.ID)
		if err != nil {
			return nil, err
		}
		active := true
		if ts.Active != nil {
			active = *ts.Active
		}
		if err := u.Traits.Add(trait.Trait{ID: id, Value: ts.Value, Active: active}); err != nil {
			return nil, err
		}
	}

	for _, ws := range spec.Weapons {
		at, err := unit.ParseAttackType(ws.AttackType)
		if err != nil {
			return nil, err
		}
		u.Weapons = append(u.Weapons, &unit.Weapon{
			ID:         ws.ID,
			Name:       ws.Name,
			AttackType: at,
			Damage:     ws.Damage,
			Range:      ws.Range,
			Indirect:   ws.Indirect,
			Area:       ws.Area,
			Accurate:   ws.Accurate,
			Inaccurate: ws.Inaccurate,
			TargetID:   ws.TargetID,
		})
	}
	return u, nil
}

func viewOf(sess *session.Session, u *unit.Unit) unitView {
	v := unitView{
		ID:         u.ID,
		Name:       u.Name,
		Team:       u.Team,
		Rating:     u.Rating.String(),
		Strength:   poolView{Value: u.Strength.Value, Max: u.Strength.Max},
		Readiness:  poolView{Value: u.Readiness.Value, Max: u.Readiness.Max},
		Supply:     supplySpec{Value: u.Supply.Value, Capacity: u.Supply.Capacity, Usage: u.Supply.Usage},
		Morale:     u.Morale.String(),
		Order:      u.CurrentOrder,
		Disordered: u.Round.Disordered,
		Destroyed:  u.IsDestroyed(),
	}
	if pos, ok := sess.PositionOf(u.ID); ok {
		v.Position = &coordSpec{Col: pos.Col, Row: pos.Row}
	}
	return v
}

// Handlers.

type traitView struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	Parameterized bool   `json:"parameterized,omitempty"`
}

func (s *Server) handleListTraits(w http.ResponseWriter, _ *http.Request) {
	views := []traitView{}
	if s.traits != nil {
		for id := trait.Flying; id <= trait.Amphibious; id++ {
			def, ok := s.traits.Get(id)
			if !ok {
				continue
			}
			views = append(views, traitView{
				ID:            id.String(),
				Name:          def.Name,
				Description:   def.Description,
				Parameterized: def.Parameterized,
			})
		}
	}
	s.writeJSON(w, http.StatusOK, views)
}

type orderView struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description,omitempty"`
	AllowsMovement bool   `json:"allowsMovement"`
	AllowsAttack   bool   `json:"allowsAttack"`
	ReadinessCost  int    `json:"readinessCost"`
	SupplyModifier string `json:"supplyModifier"`
	RequiredTrait  string `json:"requiredTrait,omitempty"`
}

func (s *Server) handleListOrders(w http.ResponseWriter, _ *http.Request) {
	views := []orderView{}
	for _, def := range s.rules.Orders.All() {
		v := orderView{
			ID:             def.ID,
			Name:           def.Name,
			Description:    def.Description,
			AllowsMovement: def.AllowsMovement,
			AllowsAttack:   def.AllowsAttack,
			ReadinessCost:  def.ReadinessCost,
			SupplyModifier: def.SupplyModifier,
		}
		if rt := def.RequiredTraitID(); rt != trait.Unknown {
			v.RequiredTrait = rt.String()
		}
		views = append(views, v)
	}
	s.writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleCreateSession(w http.ResponseWriter, _ *http.Request) {
	id, err := s.CreateSession()
	if err != nil {
		s.writeError(w, http.StatusTooManyRequests, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFor(w, r)
	if !ok {
		return
	}
	view := sessionView{
		Round: sess.Round(),
		Phase: sess.Phase().String(),
	}
	for _, u := range sess.Units() {
		view.Units = append(view.Units, viewOf(sess, u))
	}
	s.writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.DeleteSession(mux.Vars(r)["id"]); err != nil {
		s.writeError(w, http.StatusNotFound, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddUnit(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFor(w, r)
	if !ok {
		return
	}
	var spec unitSpec
	if !s.decode(w, r, &spec) {
		return
	}
	u, err := buildUnit(spec)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := sess.AddUnit(u); err != nil {
		s.writeError(w, http.StatusConflict, err)
		return
	}
	if spec.Position != nil {
		at := hexgrid.Coord{Col: spec.Position.Col, Row: spec.Position.Row}
		if err := sess.PlaceUnit(u.ID, at); err != nil {
			s.writeError(w, http.StatusConflict, err)
			return
		}
	}
	s.writeJSON(w, http.StatusCreated, viewOf(sess, u))
}

func (s *Server) handleSetOrder(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFor(w, r)
	if !ok {
		return
	}
	var req struct {
		UnitID string `json:"unitId"`
		Order  string `json:"order"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	if err := sess.SetOrder(req.UnitID, req.Order); err != nil {
		s.writeError(w, http.StatusConflict, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeclareAssault(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFor(w, r)
	if !ok {
		return
	}
	var req struct {
		UnitID   string `json:"unitId"`
		TargetID string `json:"targetId"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	if err := sess.DeclareAssault(req.UnitID, req.TargetID); err != nil {
		s.writeError(w, http.StatusConflict, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFor(w, r)
	if !ok {
		return
	}
	var req struct {
		UnitID string `json:"unitId"`
		Col    int    `json:"col"`
		Row    int    `json:"row"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	if err := sess.MoveUnit(req.UnitID, hexgrid.Coord{Col: req.Col, Row: req.Row}); err != nil {
		s.writeError(w, http.StatusConflict, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAttack(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFor(w, r)
	if !ok {
		return
	}
	var req struct {
		AttackerID string `json:"attackerId"`
		WeaponID   string `json:"weaponId"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	out, err := sess.AttackUnit(req.AttackerID, req.WeaponID)
	if err != nil {
		s.writeError(w, http.StatusConflict, err)
		return
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleVolley(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFor(w, r)
	if !ok {
		return
	}
	var req struct {
		AttackerID string `json:"attackerId"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	summaries, err := sess.RollAllAttacks(req.AttackerID)
	if err != nil {
		s.writeError(w, http.StatusConflict, err)
		return
	}
	s.writeJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleNextPhase(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFor(w, r)
	if !ok {
		return
	}
	phase := sess.NextPhase()
	s.writeJSON(w, http.StatusOK, map[string]any{
		"round": sess.Round(),
		"phase": phase.String(),
	})
}

func (s *Server) handlePreviousPhase(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFor(w, r)
	if !ok {
		return
	}
	phase := sess.PreviousPhase()
	s.writeJSON(w, http.StatusOK, map[string]any{
		"round": sess.Round(),
		"phase": phase.String(),
	})
}

func (s *Server) handleSkillCheck(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFor(w, r)
	if !ok {
		return
	}
	var req struct {
		UnitID string `json:"unitId"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	res, err := sess.SkillCheck(req.UnitID)
	if err != nil {
		s.writeError(w, http.StatusNotFound, err)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleOpposedCheck(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFor(w, r)
	if !ok {
		return
	}
	var req struct {
		UnitID  string `json:"unitId"`
		OtherID string `json:"otherId"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	res, err := sess.OpposedCheck(req.UnitID, req.OtherID)
	if err != nil {
		s.writeError(w, http.StatusNotFound, err)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

// handleWS upgrades the connection and streams session events until the
// client disconnects or the session is deleted.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	h, ok := s.hosted(id)
	if !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	feed := h.hub.Attach()
	s.log.Info("websocket client attached",
		zap.String("session", id),
		zap.String("client", feed.ID()),
	)

	// Reader goroutine: the stream is one-way, reads only notice the close.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				h.hub.Detach(feed.ID())
				return
			}
		}
	}()

	for e := range feed.Events() {
		if err := conn.WriteJSON(e); err != nil {
			break
		}
	}
	h.hub.Detach(feed.ID())
	_ = conn.Close()
	s.log.Info("websocket client detached",
		zap.String("session", id),
		zap.String("client", feed.ID()),
	)
}
