// Package service provides the business logic layer for Shape Connector.
//
// The service package implements:
//   - Multi-session round management
//   - Cell selection, bulk selection and hints
//   - Standalone and daily puzzle generation
//   - Stateless move validation
//   - Move history pagination
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ConfigManager manages preset loading and validation.
//
// Architecture:
//
// The service layer sits between the transports (HTTP, WebSocket, MCP) and
// the game engine. Each session owns its own engine; the service serializes
// access to them and hands out snapshots, so callers never share state with
// a live round.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr)
//
//	info, err := gameService.CreateSession(ctx, "medium")
//	if err != nil {
//		log.Fatal().Err(err).Msg("create session")
//	}
//
//	result, err := gameService.Select(ctx, info.ID, engine.Coord{X: 2, Y: 3})
//
// Errors wrap ErrSessionNotFound, ErrConfigNotFound and ErrInvalidRequest so
// transports can map them with errors.Is.
package service
