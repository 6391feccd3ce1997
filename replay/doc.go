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

// Package replay runs scripted recruiter conversations against a turn
// processor, several conversations at a time.
//
// A scenario is an ordered list of user messages, each optionally carrying
// feedback given before it was sent and expectations about the answer. The
// runner threads history and feedback through the turns of a scenario the
// way a client would, so each conversation is independent and scenarios can
// run concurrently on a worker pool.
//
// # Scenario files
//
// JSON Lines (.jsonl), one scenario per line, or YAML (.yaml/.yml), a list
// of scenarios:
//
//	- id: senior-feedback
//	  turns:
//	    - message: Find backend developers in São Paulo
//	    - message: Show me more
//	      feedback:
//	        - {profileId: p2, interesting: false, reason: muito senior}
//	        - {profileId: p5, interesting: false, reason: muito senior}
//	      expect:
//	        queryContains: ["seniority_rank <= 2"]
package replay
