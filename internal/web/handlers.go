package web

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cory-johannsen/encounter/internal/game/combat"
	"github.com/cory-johannsen/encounter/internal/game/dice"
	"github.com/cory-johannsen/encounter/internal/game/encounter"
	"github.com/cory-johannsen/encounter/internal/observability"
)

// CreateEncounterRequest optionally selects an encounter; the snapshot's
// current encounter is used when Encounter is nil.
type CreateEncounterRequest struct {
	Encounter *int `json:"encounter"`
}

// ActionRequest carries one player action: attack, defend, element, item,
// or any alias ParseAction accepts.
type ActionRequest struct {
	Action string `json:"action" binding:"required"`
}

// EncounterResponse is returned by every encounter route.
type EncounterResponse struct {
	ID       string      `json:"id"`
	State    combat.View `json:"state"`
	Log      []string    `json:"log"`
	Accepted *bool       `json:"accepted,omitempty"`
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": s.sessions.Len()})
}

func (s *Server) createEncounter(c *gin.Context) {
	var req CreateEncounterRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
	}

	state, err := s.source.Load(c.Request.Context())
	if err != nil {
		s.logger.Error("loading game state", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "game state unavailable"})
		return
	}
	index := state.CurrentEncounter
	if req.Encounter != nil {
		index = *req.Encounter
	}

	id := s.sessions.NewID()
	logger := observability.SessionLogger(s.logger, id, "http", index)
	sess := &session{id: id, loop: combat.NewLoop(), log: NewLogBuffer(DefaultLogLimit)}
	go func() { _ = sess.loop.Run(context.Background()) }()

	loader := encounter.NewLoader(
		dice.NewLoggedRoller(dice.SourceForSeed(s.enc.Seed), logger),
		sess.log, logger,
		combat.Options{
			Pacer:     sess.loop,
			PaceDelay: s.enc.PaceDelay,
			OnEnd:     func(o combat.Outcome) { logger.Info("encounter decided", zap.Stringer("outcome", o)) },
		},
	)

	var beginErr error
	var resp EncounterResponse
	err = sess.loop.Call(c.Request.Context(), func() {
		sess.sched, beginErr = loader.Begin(state, index)
		if beginErr == nil {
			resp = sess.response()
		}
	})
	if err == nil {
		err = beginErr
	}
	if err != nil {
		sess.loop.Stop()
		switch {
		case errors.Is(err, encounter.ErrEncounterIndex), errors.Is(err, encounter.ErrNoEnemies):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		default:
			logger.Error("starting encounter", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start encounter"})
		}
		return
	}

	_ = s.sessions.Put(c.Request.Context(), id, sess)
	c.JSON(http.StatusCreated, resp)
}

func (s *Server) getEncounter(c *gin.Context) {
	sess, ok := s.lookup(c)
	if !ok {
		return
	}
	var resp EncounterResponse
	if err := sess.loop.Call(c.Request.Context(), func() { resp = sess.response() }); err != nil {
		s.loopError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) submitAction(c *gin.Context) {
	sess, ok := s.lookup(c)
	if !ok {
		return
	}
	var req ActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	action, ok := combat.ParseAction(req.Action)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown action"})
		return
	}

	var resp EncounterResponse
	err := sess.loop.Call(c.Request.Context(), func() {
		accepted := sess.sched.Submit(action)
		resp = sess.response()
		resp.Accepted = &accepted
	})
	if err != nil {
		s.loopError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) deleteEncounter(c *gin.Context) {
	sess, ok, _ := s.sessions.Delete(c.Request.Context(), c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "encounter not found"})
		return
	}
	sess.loop.Stop()
	c.Status(http.StatusNoContent)
}

func (s *Server) lookup(c *gin.Context) (*session, bool) {
	sess, ok, _ := s.sessions.Get(c.Request.Context(), c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "encounter not found"})
		return nil, false
	}
	return sess, true
}

func (s *Server) loopError(c *gin.Context, err error) {
	if errors.Is(err, combat.ErrLoopStopped) {
		c.JSON(http.StatusGone, gin.H{"error": "encounter closed"})
		return
	}
	c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
}

// response must run on the session's loop.
func (sess *session) response() EncounterResponse {
	return EncounterResponse{
		ID:    sess.id,
		State: sess.sched.Session().View(),
		Log:   sess.log.Snapshot(),
	}
}
