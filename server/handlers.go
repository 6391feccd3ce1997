// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package server

import (
	"fmt"
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/poiesic/scout/core"
	"github.com/poiesic/scout/export"
)

// ExportRequest is the body of the export endpoints.
type ExportRequest struct {
	Rows     []core.Record          `json:"rows" binding:"required"`
	Feedback []core.ProfileFeedback `json:"feedback"`
	// Filename names the CSV attachment. Default is "profiles.csv".
	Filename string `json:"filename"`
}

// TicketRequest is the body of POST /v1/export/ticket.
type TicketRequest struct {
	ExportRequest
	ListID string `json:"listId" binding:"required"`
	Title  string `json:"title"`
}

var unsafeFilename = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleTurn(c *gin.Context) {
	var req core.TurnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "invalid request body: " + err.Error(),
			Code:  "INVALID_REQUEST",
		})
		return
	}

	result, err := s.processor.ProcessTurn(c.Request.Context(), req)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleExportCSV(c *gin.Context) {
	var req ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "invalid request body: " + err.Error(),
			Code:  "INVALID_REQUEST",
		})
		return
	}

	data, err := export.RenderCSV(export.BuildRecords(req.Rows, req.Feedback))
	if err != nil {
		s.fail(c, err)
		return
	}

	filename := unsafeFilename.ReplaceAllString(req.Filename, "_")
	if filename == "" {
		filename = "profiles.csv"
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

func (s *Server) handleExportTicket(c *gin.Context) {
	var req TicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "invalid request body: " + err.Error(),
			Code:  "INVALID_REQUEST",
		})
		return
	}

	ticket, err := s.exporter.Export(c.Request.Context(), req.ListID, req.Title, req.Rows, req.Feedback)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, ticket)
}

func (s *Server) fail(c *gin.Context, err error) {
	status, code := classify(err)
	log := s.requestLog(c)
	if status >= http.StatusInternalServerError {
		log.Error("request failed", "code", code, "err", err)
	} else {
		log.Warn("request rejected", "code", code, "err", err)
	}
	c.JSON(status, ErrorResponse{Error: err.Error(), Code: code})
}
