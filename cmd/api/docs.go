package main

// @title Favorites API
// @version 1.0.0
// @description API for managing customer favorites

// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the token.

// @tag.name Auth
// @tag.description Registration and bearer tokens

// @tag.name Customers
// @tag.description Customer management

// @tag.name Favorites
// @tag.description Customer favorite products
