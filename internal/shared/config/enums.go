//go:generate go run github.com/abice/go-enum --file=$GOFILE --names --nocase

package config

// AppEnv represents the application environment
// ENUM(local,production,development,testing)
type AppEnv string

// FetcherKind selects the backend used to turn a feed URL into items
// ENUM(converter,direct)
type FetcherKind string
