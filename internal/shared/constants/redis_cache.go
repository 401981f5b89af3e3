package constants

import (
	"fmt"
	"time"
)

// Redis Cache Configuration
// This file centralizes all Redis cache keys and TTL values for the EventBud application
// Pattern: eventbud:{module}:{operation}:{identifier}:{params?}

// ================== CACHE TTL DURATIONS ==================

// Static Data (Long TTL: rarely changes)
const (
	TTL_STATIC_LONG  = 24 * time.Hour // 24 hours - for very stable data
	TTL_STATIC_SHORT = 6 * time.Hour  // 6 hours - for user profiles
)

// Semi-Static Data (Medium TTL: changes occasionally)
const (
	TTL_SEMI_STATIC_MEDIUM = 2 * time.Hour    // 2 hours - for expired event details
	TTL_SEMI_STATIC_QUICK  = 15 * time.Minute // 15 minutes - for organizer dashboards
)

// Dynamic Data (Short TTL: changes frequently)
const (
	TTL_DYNAMIC_MEDIUM = 10 * time.Minute // 10 minutes - for revenue summaries
	TTL_DYNAMIC_SHORT  = 5 * time.Minute  // 5 minutes - for seat grids
)

// Highly Dynamic (Micro TTL: real-time sensitive)
const (
	TTL_REALTIME_MEDIUM = 1 * time.Minute  // 1 minute - for on-sale event listings
	TTL_REALTIME_SHORT  = 30 * time.Second // 30 seconds - for live seat counts
)

// ================== REDIS KEY PREFIXES ==================

const (
	CACHE_PREFIX = "eventbud"
)

// ================== EVENTS MODULE ==================

// Event Cache Keys
const (
	CACHE_KEY_EVENTS_LIST  = CACHE_PREFIX + ":events:list"        // published events for browsing
	CACHE_KEY_EVENT_DETAIL = CACHE_PREFIX + ":events:detail:id:"  // + event-id
	CACHE_KEY_EVENT_SEATS  = CACHE_PREFIX + ":events:seats:id:"   // + event-id:class:class-name
	CACHE_KEY_EO_EVENTS    = CACHE_PREFIX + ":events:organizer:"  // + organizer-id
	CACHE_KEY_EO_REVENUE   = CACHE_PREFIX + ":events:revenue:id:" // + event-id
)

// Event Cache TTLs
const (
	TTL_EVENT_LIST   = TTL_REALTIME_MEDIUM // 1 minute
	TTL_EVENT_DETAIL = TTL_SEMI_STATIC_QUICK
	TTL_EVENT_SEATS  = TTL_REALTIME_SHORT
	TTL_EO_EVENTS    = TTL_SEMI_STATIC_QUICK
	TTL_EO_REVENUE   = TTL_DYNAMIC_MEDIUM
)

// ================== USERS MODULE ==================

// User Cache Keys
const (
	CACHE_KEY_USER_PROFILE = CACHE_PREFIX + ":users:profile:id:" // + user-id
)

// User Cache TTLs
const (
	TTL_USER_PROFILE = TTL_STATIC_SHORT // 6 hours
)

// ================== CACHE INVALIDATION PATTERNS ==================

// Patterns for cache invalidation
const (
	PATTERN_INVALIDATE_EVENT_ALL = CACHE_PREFIX + ":events:*"
	PATTERN_INVALIDATE_USER_ALL  = CACHE_PREFIX + ":users:*"
)

// ================== HELPER FUNCTIONS ==================

func BuildEventDetailKey(eventID string) string {
	return CACHE_KEY_EVENT_DETAIL + eventID
}

func BuildEventSeatsKey(eventID, className string) string {
	return fmt.Sprintf("%s%s:class:%s", CACHE_KEY_EVENT_SEATS, eventID, className)
}

func BuildOrganizerEventsKey(organizerID string) string {
	return CACHE_KEY_EO_EVENTS + organizerID
}

func BuildEventRevenueKey(eventID string) string {
	return CACHE_KEY_EO_REVENUE + eventID
}

func BuildUserProfileKey(userID string) string {
	return CACHE_KEY_USER_PROFILE + userID
}

// BuildEventInvalidationPattern matches every cached view of one event.
func BuildEventInvalidationPattern(eventID string) string {
	return CACHE_PREFIX + ":events:*" + eventID + "*"
}
