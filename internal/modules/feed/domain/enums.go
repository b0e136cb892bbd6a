//go:generate go run github.com/abice/go-enum --file=$GOFILE --names --nocase

package domain

// RenderState is the outcome shown by a render target
// ENUM(pending,rendered,rendered_empty,failed)
type RenderState string
