package protocol

// HELLO (observer -> server)
type HelloMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	ObserverName    string `json:"observer_name"`
	// FromTick asks for events from this tick onward; 0 means live only.
	FromTick uint64 `json:"from_tick,omitempty"`
}

// WELCOME (server -> observer)
type WelcomeMsg struct {
	Type            string      `json:"type"`
	ProtocolVersion string      `json:"protocol_version"`
	ArenaID         string      `json:"arena_id"`
	ServerTick      uint64      `json:"server_tick"`
	CatalogDigest   string      `json:"catalog_digest"`
	ArenaParams     ArenaParams `json:"arena_params"`
}

type ArenaParams struct {
	TickRateHz            int `json:"tick_rate_hz"`
	Actors                int `json:"actors"`
	ConsolidateEveryTicks int `json:"consolidate_every_ticks"`
}

// OUTCOME (server -> observer), one per resolution call.
type OutcomeEventMsg struct {
	Type            string  `json:"type"`
	ProtocolVersion string  `json:"protocol_version"`
	Tick            uint64  `json:"tick"`
	ActorSlot       int     `json:"actor_slot"`
	ActorName       string  `json:"actor_name"`
	Action          string  `json:"action"`
	Outcome         string  `json:"outcome"`
	Chunk           string  `json:"chunk,omitempty"`
	SkillModifier   float64 `json:"skill_modifier"`
	AttentionCost   float64 `json:"attention_cost"`
	AttentionLeft   float64 `json:"attention_left"`
}

// CONSOLIDATION (server -> observer), one per actor per learning pass.
type ConsolidationEventMsg struct {
	Type            string   `json:"type"`
	ProtocolVersion string   `json:"protocol_version"`
	Tick            uint64   `json:"tick"`
	ActorSlot       int      `json:"actor_slot"`
	ActorName       string   `json:"actor_name"`
	Experiences     int      `json:"experiences"`
	OwnedChunks     int      `json:"owned_chunks"`
	FormedChunks    []string `json:"formed_chunks,omitempty"`
}
