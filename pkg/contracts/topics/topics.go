package topics

const (
	// Leaderboard
	RankChanges = "leaderboard_rank_changes"

	// Canal Redis Pub/Sub usado para broadcast do leaderboard ao tier de visualização
	LeaderboardBroadcast = "leaderboard_updates_broadcast"
)
