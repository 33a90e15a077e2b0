package rpc

import (
	"context"
	"net/http"

	"chatbot/common"
	"chatbot/db"

	"github.com/gin-gonic/gin"
)

// History returns the most recent exchanges, oldest first.
func (s *Service) History(ctx context.Context) ([]db.Exchange, error) {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()
	recent, err := s.store.Recent(ctx, db.HistoryLimit)
	if err != nil {
		return nil, &common.PersistenceError{Op: common.OpQuery, Err: err}
	}
	if len(recent) > db.HistoryLimit {
		recent = recent[:db.HistoryLimit]
	}
	history := make([]db.Exchange, len(recent))
	for i, ex := range recent {
		history[len(recent)-1-i] = ex
	}
	return history, nil
}

func (srv *Server) HandleHistory(c *gin.Context) {
	history, err := srv.svc.History(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}
