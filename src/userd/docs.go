// Package main userd API
//
// @title           userd API
// @version         1.0
// @description     User management REST API - create, read, update and delete user records with unique emails.
//
// @host            localhost:8080
// @BasePath        /
// @schemes         http https
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer token authentication. Prefix the token with "Bearer ".
package main
