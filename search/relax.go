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

package search

import (
	"context"
	"fmt"

	"github.com/poiesic/scout/core"
)

// relaxationInstruction is appended as a user turn when the first query
// matched nothing.
const relaxationInstruction = "A busca anterior não retornou nenhum perfil. Gere uma nova consulta mais ampla: " +
	"remova filtros de formação acadêmica, use filtros de texto apenas em headline e title, " +
	"amplie a faixa de senioridade, remova filtros de localização e mantenha apenas o critério principal de cargo ou função. " +
	"As restrições obrigatórias continuam valendo. " +
	"Diga na assistantMessage que os critérios foram flexibilizados."

// relax runs the single relaxed retry for a turn whose first query
// returned no rows. It never fails the turn: a failed retry keeps the
// original empty result and records core.ErrRelaxationFailed.
func (s *Searcher) relax(ctx context.Context, t *turn, original *core.SearchResult) *core.SearchResult {
	t.monitor.Relaxing()
	s.logger.Info("no rows matched, relaxing criteria")

	window := make([]core.DialogueTurn, 0, len(t.window)+1)
	window = append(window, t.window...)
	window = append(window, core.DialogueTurn{Role: core.RoleUser, Content: relaxationInstruction})

	relaxed, err := s.attempt(ctx, t, PhaseRelaxed, window)
	if err != nil {
		t.warn(fmt.Errorf("%w: %w", core.ErrRelaxationFailed, err))
		return original
	}

	if len(relaxed.Rows) == 0 {
		s.logger.Info("relaxed query also matched nothing")
		return relaxed
	}

	if !mentionsRelaxation(relaxed.AssistantMessage) {
		relaxed.AssistantMessage = s.disclosure + relaxed.AssistantMessage
	}
	return relaxed
}
