package redis

import (
	"fmt"
	"strings"

	"github.com/mcoot/roulettegame/internal/model"
)

// Key prefix for all game-related data
const keyPrefix = "roulette"

// adminKey returns the Redis key for an Admin
func adminKey(id model.AdminID) string {
	return fmt.Sprintf("%s:admin:%s", keyPrefix, id)
}

// adminEmailIndexKey returns the Redis key for the email -> admin_id index
func adminEmailIndexKey(email string) string {
	return fmt.Sprintf("%s:idx:admin_email:%s", keyPrefix, strings.ToLower(email))
}

// sessionKey returns the Redis key for a Session
func sessionKey(id model.SessionID) string {
	return fmt.Sprintf("%s:session:%s", keyPrefix, id)
}

// sessionsIndexKey returns the Redis key for the ZSET of all sessions by creation time
func sessionsIndexKey() string {
	return fmt.Sprintf("%s:idx:sessions", keyPrefix)
}

// adminSessionsIndexKey returns the Redis key for the ZSET of an admin's sessions
func adminSessionsIndexKey(adminID model.AdminID) string {
	return fmt.Sprintf("%s:idx:admin_sessions:%s", keyPrefix, adminID)
}

// playKey returns the Redis key for a Play
func playKey(id string) string {
	return fmt.Sprintf("%s:play:%s", keyPrefix, id)
}

// playsForSessionIndexKey returns the Redis key for the SET of plays for a session
func playsForSessionIndexKey(sessionID model.SessionID) string {
	return fmt.Sprintf("%s:idx:plays_for_session:%s", keyPrefix, sessionID)
}

// participantKey returns the Redis key for a Participant
func participantKey(id model.ParticipantID) string {
	return fmt.Sprintf("%s:participant:%s", keyPrefix, id)
}

// participantsIndexKey returns the Redis key for the ZSET of all participants by creation time
func participantsIndexKey() string {
	return fmt.Sprintf("%s:idx:participants", keyPrefix)
}

// sessionParticipantsIndexKey returns the Redis key for the ZSET of a session's participants
func sessionParticipantsIndexKey(sessionID model.SessionID) string {
	return fmt.Sprintf("%s:idx:session_participants:%s", keyPrefix, sessionID)
}
