//
// See the file COPYRIGHT for copyright information.
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
//

package api

import (
	"encoding/json"
	"log/slog"
	"strconv"
	"sync/atomic"

	"github.com/launchdarkly/eventsource"
	ersjson "github.com/reliefops/ers-go/json"
)

const EventSourceChannel = "ersevents"

type ERSEventData struct {
	Comment string `json:"comment,omitzero"`

	// Exactly one of EmergencyID or InitialEvent must be set, as this
	// indicates the type of ERS SSE.

	EmergencyID  string                  `json:"emergency_id,omitzero"`
	Status       ersjson.EmergencyStatus `json:"status,omitzero"`
	InitialEvent bool                    `json:"initial_event,omitzero"`
}

type ERSEvent struct {
	EventID   int64
	EventData ERSEventData
}

func (e ERSEvent) Id() string {
	return strconv.FormatInt(e.EventID, 10)
}

func (e ERSEvent) Event() string {
	if e.EventData.EmergencyID != "" {
		return "Emergency"
	}
	if e.EventData.InitialEvent {
		return "InitialEvent"
	}
	return "UnknownEvent"
}

func (e ERSEvent) Data() string {
	b, err := json.Marshal(e.EventData)
	if err != nil {
		slog.Error("Error converting ERSEvent to JSON", "EventData", e.EventData, "err", err)
	}
	return string(b)
}

type EventSourcerer struct {
	Server    *eventsource.Server
	IdCounter atomic.Int64
}

func NewEventSourcerer() *EventSourcerer {
	es := &EventSourcerer{
		Server:    eventsource.NewServer(),
		IdCounter: atomic.Int64{},
	}
	es.Server.Register(EventSourceChannel, es)
	es.Server.ReplayAll = true
	return es
}

func (es *EventSourcerer) Replay(channel, id string) chan eventsource.Event {
	if channel != EventSourceChannel {
		return nil
	}
	out := make(chan eventsource.Event, 1)
	out <- ERSEvent{
		EventID: es.IdCounter.Load(),
		EventData: ERSEventData{
			InitialEvent: true,
			Comment:      "The most recent SSE ID is provided in this message",
		},
	}
	close(out)
	return out
}

// notifyEmergencyUpdate publishes an SSE whenever an emergency is declared
// or its status changes. Clients refetch the emergency on receipt.
func (es *EventSourcerer) notifyEmergencyUpdate(emergencyID string, status ersjson.EmergencyStatus) {
	if es == nil || emergencyID == "" {
		return
	}
	es.Server.Publish([]string{EventSourceChannel}, ERSEvent{
		EventID: es.IdCounter.Add(1),
		EventData: ERSEventData{
			EmergencyID: emergencyID,
			Status:      status,
		},
	})
}
