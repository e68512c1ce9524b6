package constants

// Centralized constants for headers, env keys and routes.
const (
	// Environment variable keys
	EnvSessionSecret       = "SESSION_SECRET"
	EnvGoogleClientID      = "GOOGLE_CLIENT_ID"
	EnvGoogleClientSecret  = "GOOGLE_CLIENT_SECRET"
	EnvSessionSecureCookie = "SESSION_SECURE_COOKIE"
	EnvConfigPath          = "WARLOCK_CONFIG"
	EnvDBPath              = "WARLOCK_DB"

	// HTTP headers and content types
	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"

	ContentTypeJSON = "application/json"

	// Authorization prefix
	BearerPrefix = "Bearer "

	// Session / Cookie names
	CookieSessionName = "w_session"

	// Google OAuth constants
	GoogleOAuthRedirect = "postmessage"
	GoogleUserInfoURL   = "https://www.googleapis.com/oauth2/v2/userinfo"
)

var (
	// Scopes for Google userinfo
	GoogleUserInfoScopes = []string{"https://www.googleapis.com/auth/userinfo.email", "https://www.googleapis.com/auth/userinfo.profile"}
)

// Routes used by the backend router
const (
	RouteAPIPrefix          = "/api"
	RoutePublicGames        = "/public-games"
	RouteLeaderboard        = "/leaderboard"
	RouteAbilities          = "/abilities"
	RouteAuthGoogleCallBack = "/auth/google/oauth2callback"
	RoutePlayerStats        = "/player-stats"
	RouteGames              = "/games"
	RouteGamesJoin          = "/games/join"
	RouteGameByID           = "/games/:gameCode"
	RouteGameStart          = "/games/:gameCode/start"
	RouteGameEnd            = "/games/:gameCode/end"
	RouteGameLeave          = "/games/:gameCode/leave"
	RouteGameAction         = "/games/:gameCode/action"
	RouteGameWatch          = "/games/:gameCode/watch"
	RouteVersion            = "/version"
)

// Common JSON response keys
const (
	JSONKeyError   = "error"
	JSONKeyMessage = "message"
	JSONKeyStatus  = "status"
	JSONKeyDetails = "details"
)

// Common error messages used across API handlers
const (
	ErrInvalidRequest   = "Invalid request"
	ErrMissingGoogleEnv = "Missing GOOGLE_CLIENT_ID/GOOGLE_CLIENT_SECRET in environment"
	ErrInvalidGameID    = "Invalid game code"
	ErrGameNotFound     = "Game not found"

	ErrFailedFetchGames       = "Failed to fetch games"
	ErrFailedEncodeGame       = "Failed to encode game"
	ErrFailedFetchLeaderboard = "Failed to fetch leaderboard"
	ErrFailedFetchStats       = "Failed to fetch stats"

	ErrFailedCreateGame             = "Failed to create game"
	ErrGameNameExceeds              = "Game name exceeds 32 characters"
	ErrDescriptionExceeds           = "Description exceeds 256 characters"
	ErrGameFull                     = "Game is full"
	ErrNotEnoughPlayers             = "Not enough players to start the game"
	ErrGameAlreadyStartingOrStarted = "Game is already starting or started"
	ErrFailedUpdateGame             = "Failed to update game"
	ErrFailedEndGame                = "Failed to end game"
	ErrFailedRemovePlayer           = "Failed to remove player"
	ErrPlayerRemovedFailedUpdate    = "Player removed, but failed to update game"
	ErrCannotLeaveAfterGameStarted  = "Cannot leave after the game has started"

	ErrFailedStoreAction           = "Failed to store action"
	ErrGameNotInProgress           = "Game is not in progress"
	ErrActionsLockedResolvingRound = "Actions are locked; resolving current round"
	ErrPlayerNotInGame             = "Player not in game"
	ErrPlayerNotInThisGame         = "Player is not part of this game"
	ErrPlayerDead                  = "Dead players cannot act"
	ErrUnknownAbility              = "Unknown ability"
	ErrAbilityOnCooldown           = "Ability is on cooldown"
	ErrInvalidTarget               = "Invalid target for this ability"
	ErrGameSessionCorrupted        = "Game session is corrupted and cannot continue"

	ErrEmailRequired          = "Email required"
	ErrFailedEncodeGames      = "Failed to encode games"
	ErrFailedUpgradeWebsocket = "Failed to upgrade connection"

	ErrFailedExchangeToken    = "Failed to exchange token"
	ErrFailedGetUserInfo      = "Failed to get user info"
	ErrFailedReadUserData     = "Failed to read user data: %s"
	ErrNoEmailInGoogleProfile = "No email in Google profile"
	ErrFailedCreateSession    = "Failed to create session"

	ErrAuthRequired   = "Authentication required"
	ErrInvalidSession = "Invalid session"
)

// Logging field names
const (
	LogFieldGameID     = "game_id"
	LogFieldPlayerUUID = "player_uuid"
	LogFieldAbility    = "ability"
	LogFieldRound      = "round"
	LogFieldAddr       = "addr"
	LogFieldPlayers    = "players"
)
