//go:build opengl

package main

import _ "github.com/gogpu/tex/backend/opengl"
