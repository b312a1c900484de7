// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// LitVertexShader transforms vertices and computes Gouraud lighting.
//
//go:embed lit.vert
var LitVertexShader string

// LitFragmentShader computes Phong lighting and applies the texture.
//
//go:embed lit.frag
var LitFragmentShader string
