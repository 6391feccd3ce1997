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

package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/scout/core"
)

var (
	// ErrTicketCreatorRequired is returned when a ticket creator is not provided.
	ErrTicketCreatorRequired = errors.New("ticket creator required")

	// ErrNothingToExport is returned when no row carries a profile id.
	ErrNothingToExport = errors.New("nothing to export")

	// ErrListIDRequired is returned when the destination list is blank.
	ErrListIDRequired = errors.New("list id required")
)

// Ticket identifies a ticket created by the tracker.
type Ticket struct {
	ID            string `json:"ticketId"`
	URL           string `json:"ticketUrl"`
	AttachmentURL string `json:"attachmentUrl,omitempty"`
}

// TicketCreator creates a ticket in listID carrying records as an attachment.
type TicketCreator interface {
	CreateTicketWithAttachment(ctx context.Context, listID string, records []core.ExportRecord, title string) (*Ticket, error)
}

// TicketCreatorFunc adapts a function to TicketCreator.
type TicketCreatorFunc func(ctx context.Context, listID string, records []core.ExportRecord, title string) (*Ticket, error)

// CreateTicketWithAttachment calls f.
func (f TicketCreatorFunc) CreateTicketWithAttachment(ctx context.Context, listID string, records []core.ExportRecord, title string) (*Ticket, error) {
	return f(ctx, listID, records, title)
}

// Exporter hands shortlisted profiles to a ticket tracker.
type Exporter struct {
	creator TicketCreator
	logger  *slog.Logger
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Exporter) {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger.With("component", "exporter")
	}
}

// NewExporter creates an exporter that delivers through creator.
func NewExporter(creator TicketCreator, opts ...Option) (*Exporter, error) {
	if creator == nil {
		return nil, ErrTicketCreatorRequired
	}
	e := &Exporter{
		creator: creator,
		logger:  slog.Default().With("component", "exporter"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Export builds records from rows and feedback and creates one ticket.
func (e *Exporter) Export(ctx context.Context, listID, title string, rows []core.Record, feedback []core.ProfileFeedback) (*Ticket, error) {
	if strings.TrimSpace(listID) == "" {
		return nil, ErrListIDRequired
	}
	records := BuildRecords(rows, feedback)
	if len(records) == 0 {
		return nil, ErrNothingToExport
	}

	ticket, err := e.creator.CreateTicketWithAttachment(ctx, listID, records, title)
	if err != nil {
		e.logger.Error("ticket creation failed", "list", listID, "records", len(records), "err", err)
		return nil, fmt.Errorf("create ticket: %w", err)
	}
	e.logger.Info("exported profiles", "list", listID, "records", len(records), "ticket", ticket.ID)
	return ticket, nil
}
