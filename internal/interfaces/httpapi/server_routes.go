package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, metrics http.Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if metrics != nil {
		mux.Handle("GET /metrics", metrics)
	}
}

func registerAccountRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.HandleFunc("POST /v1/auth/login", handler.Login)
	mux.Handle("GET /v1/me", RequireAuth(verifier, http.HandlerFunc(handler.Me)))
	mux.Handle("PUT /v1/me/password", RequireAuth(verifier, http.HandlerFunc(handler.ChangePassword)))
	mux.Handle("POST /v1/players/{playerID}/account", RequireAdmin(verifier, http.HandlerFunc(handler.CreateAccount)))
	mux.Handle("PUT /v1/players/{playerID}/password", RequireAdmin(verifier, http.HandlerFunc(handler.ResetPassword)))
}

func registerPlayerRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/players", RequireAuth(verifier, http.HandlerFunc(handler.ListPlayers)))
	mux.Handle("GET /v1/players/{playerID}", RequireAuth(verifier, http.HandlerFunc(handler.GetPlayer)))
	mux.Handle("GET /v1/leaderboards", RequireAuth(verifier, http.HandlerFunc(handler.LeaderboardSummary)))
	mux.Handle("GET /v1/leaderboards/{category}", RequireAuth(verifier, http.HandlerFunc(handler.Leaderboard)))

	mux.Handle("POST /v1/players", RequireAdmin(verifier, http.HandlerFunc(handler.RegisterPlayers)))
	mux.Handle("POST /v1/players/validity", RequireAdmin(verifier, http.HandlerFunc(handler.TogglePlayerValidity)))
	mux.Handle("DELETE /v1/players/{playerID}", RequireAdmin(verifier, http.HandlerFunc(handler.PurgePlayer)))
	mux.Handle("PUT /v1/players/{playerID}/points", RequireAdmin(verifier, http.HandlerFunc(handler.SetPlayerPoints)))
	mux.Handle("PUT /v1/players/{playerID}/rank", RequireAdmin(verifier, http.HandlerFunc(handler.SetPlayerRank)))
	mux.Handle("POST /v1/points", RequireAdmin(verifier, http.HandlerFunc(handler.AddPoints)))
	mux.Handle("PUT /v1/points/assignments", RequireAdmin(verifier, http.HandlerFunc(handler.SaveAssignments)))
	mux.Handle("POST /v1/rankings/recompute", RequireAdmin(verifier, http.HandlerFunc(handler.RecomputeRankings)))
}

func registerMatchRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/matches", RequireAuth(verifier, http.HandlerFunc(handler.ListMatches)))
	mux.Handle("POST /v1/matches", RequireAuth(verifier, http.HandlerFunc(handler.SubmitMatch)))

	mux.Handle("POST /v1/matches/batch", RequireAdmin(verifier, http.HandlerFunc(handler.SubmitMatchBatch)))
	mux.Handle("POST /v1/matches/approve", RequireAdmin(verifier, http.HandlerFunc(handler.ApproveMatches)))
	mux.Handle("POST /v1/matches/delete", RequireAdmin(verifier, http.HandlerFunc(handler.DeleteMatches)))
	mux.Handle("POST /v1/stats/rebuild", RequireAdmin(verifier, http.HandlerFunc(handler.RebuildStats)))
}

func registerBettingRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/bettings", RequireAuth(verifier, http.HandlerFunc(handler.ListBettings)))
	mux.Handle("GET /v1/bettings/{bettingID}", RequireAuth(verifier, http.HandlerFunc(handler.GetBetting)))
	mux.Handle("PUT /v1/bettings/{bettingID}/bet", RequireAuth(verifier, http.HandlerFunc(handler.PlaceBet)))
	mux.Handle("POST /v1/bettings/{bettingID}/result", RequireAuth(verifier, http.HandlerFunc(handler.SubmitBettingResult)))

	mux.Handle("POST /v1/bettings", RequireAdmin(verifier, http.HandlerFunc(handler.CreateBetting)))
	mux.Handle("POST /v1/bettings/{bettingID}/participants", RequireAdmin(verifier, http.HandlerFunc(handler.AddBettingParticipants)))
	mux.Handle("POST /v1/bettings/{bettingID}/participants/remove", RequireAdmin(verifier, http.HandlerFunc(handler.RemoveBettingParticipants)))
	mux.Handle("PUT /v1/bettings/{bettingID}/participants", RequireAdmin(verifier, http.HandlerFunc(handler.UpdateBettingParticipants)))
	mux.Handle("POST /v1/bettings/{bettingID}/close", RequireAdmin(verifier, http.HandlerFunc(handler.ToggleBettingClose)))
	mux.Handle("POST /v1/bettings/approve", RequireAdmin(verifier, http.HandlerFunc(handler.ApproveBettings)))
	mux.Handle("POST /v1/bettings/delete", RequireAdmin(verifier, http.HandlerFunc(handler.DeleteBettings)))
}

func registerLeagueRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/leagues", RequireAuth(verifier, http.HandlerFunc(handler.ListLeagues)))
	mux.Handle("GET /v1/leagues/{leagueID}", RequireAuth(verifier, http.HandlerFunc(handler.GetLeague)))
	mux.Handle("POST /v1/leagues/{leagueID}/matches", RequireAuth(verifier, http.HandlerFunc(handler.SubmitLeagueMatch)))

	mux.Handle("POST /v1/leagues", RequireAdmin(verifier, http.HandlerFunc(handler.CreateLeague)))
	mux.Handle("POST /v1/leagues/{leagueID}/revert", RequireAdmin(verifier, http.HandlerFunc(handler.RevertLeagueResult)))
	mux.Handle("PUT /v1/leagues/{leagueID}/cells", RequireAdmin(verifier, http.HandlerFunc(handler.SetLeagueCells)))
	mux.Handle("DELETE /v1/leagues/{leagueID}", RequireAdmin(verifier, http.HandlerFunc(handler.DeleteLeague)))
}

func registerTournamentRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/tournaments", RequireAuth(verifier, http.HandlerFunc(handler.ListTournaments)))
	mux.Handle("GET /v1/tournaments/{tournamentID}", RequireAuth(verifier, http.HandlerFunc(handler.GetTournament)))

	mux.Handle("POST /v1/tournaments", RequireAdmin(verifier, http.HandlerFunc(handler.GenerateTournament)))
	mux.Handle("POST /v1/tournaments/{tournamentID}/results", RequireAdmin(verifier, http.HandlerFunc(handler.SubmitTournamentResults)))
	mux.Handle("DELETE /v1/tournaments/{tournamentID}", RequireAdmin(verifier, http.HandlerFunc(handler.DeleteTournament)))
}

func registerPartnerRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/partners", RequireAuth(verifier, http.HandlerFunc(handler.ListPartners)))

	mux.Handle("POST /v1/partners/proposal", RequireAdmin(verifier, http.HandlerFunc(handler.ProposePartners)))
	mux.Handle("POST /v1/partners", RequireAdmin(verifier, http.HandlerFunc(handler.SavePartners)))
	mux.Handle("DELETE /v1/partners", RequireAdmin(verifier, http.HandlerFunc(handler.ResetPartners)))
}

func registerDivisionRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/divisions/logs", RequireAuth(verifier, http.HandlerFunc(handler.ListDivisionLogs)))
	mux.Handle("GET /v1/divisions/logs/{logID}", RequireAuth(verifier, http.HandlerFunc(handler.GetDivisionLog)))

	mux.Handle("POST /v1/divisions/update", RequireAdmin(verifier, http.HandlerFunc(handler.UpdateDivisions)))
	mux.Handle("POST /v1/divisions/revert", RequireAdmin(verifier, http.HandlerFunc(handler.RevertDivisions)))
	mux.Handle("DELETE /v1/divisions/logs/{logID}", RequireAdmin(verifier, http.HandlerFunc(handler.DeleteDivisionLog)))
}
