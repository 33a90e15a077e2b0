package rpc

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"chatbot/common"
	"chatbot/log"

	"github.com/gin-gonic/gin"
)

type ChatRequest struct {
	Message string `json:"message" binding:"required"`
}

type ChatResponse struct {
	Reply string `json:"reply"`
}

// Chat generates a reply for message and records the exchange. The record
// is written only after generation succeeds, and a failed write fails the
// whole call even though a reply exists.
func (s *Service) Chat(ctx context.Context, message string) (string, error) {
	if message == "" {
		return "", common.ErrInvalidRequest
	}
	reply, err := s.generate(ctx, message)
	if err != nil {
		return "", err
	}

	// a finished generation is persisted even if the caller has gone away
	storeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.storeTimeout)
	defer cancel()
	if _, err = s.store.Insert(storeCtx, message, reply); err != nil {
		log.Warn("dropping generated reply", "reply", reply, "error", err)
		return "", &common.PersistenceError{Op: common.OpInsert, Err: err}
	}
	return reply, nil
}

func (s *Service) generate(ctx context.Context, message string) (string, error) {
	genCtx, cancel := context.WithTimeout(ctx, s.generateTimeout)
	defer cancel()
	reply, err := s.generator.Generate(genCtx, message)
	if err == nil && errors.Is(genCtx.Err(), context.DeadlineExceeded) {
		// reply arrived after the deadline
		err = genCtx.Err()
	}
	if err == nil && strings.TrimSpace(reply) == "" {
		err = errors.New("empty completion")
	}
	if err == nil {
		return reply, nil
	}
	var upstream *common.UpstreamGenerationError
	if errors.As(err, &upstream) {
		return "", err
	}
	e := &common.UpstreamGenerationError{Provider: s.generator.Name(), Detail: err.Error(), Err: err}
	if errors.Is(err, context.DeadlineExceeded) {
		e.Status = http.StatusGatewayTimeout
	}
	return "", e
}

func (srv *Server) HandleChat(c *gin.Context) {
	reqID := c.GetString(RequestIDContextName)
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Debug("invalid chat request", "request_id", reqID, "error", err)
		writeError(c, common.ErrInvalidRequest)
		return
	}
	log.Info("chat message received", "request_id", reqID, "message", req.Message)

	reply, err := srv.svc.Chat(c.Request.Context(), req.Message)
	if err != nil {
		writeError(c, err)
		return
	}
	log.Info("chat reply generated", "request_id", reqID, "reply", reply)
	c.JSON(http.StatusOK, ChatResponse{Reply: reply})
}
