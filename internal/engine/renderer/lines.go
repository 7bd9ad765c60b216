package renderer

import "github.com/Faultbox/strokereveal/internal/engine/shader"

// lineSource draws polylines and points in one flat color per draw.
var lineSource = shader.Source{
	Name: "lines",
	Vertex: `
		#version 410 core

		layout (location = 0) in vec3 aPos;

		uniform mat4 uProjection;
		uniform float uPointSize;

		void main() {
			gl_Position = uProjection * vec4(aPos, 1.0);
			gl_PointSize = uPointSize;
		}
	`,
	Fragment: `
		#version 410 core

		uniform vec4 uColor;
		out vec4 FragColor;

		void main() {
			FragColor = uColor;
		}
	`,
}
