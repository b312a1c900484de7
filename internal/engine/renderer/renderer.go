// Package renderer draws a scene with OpenGL.
package renderer

import (
	"fmt"
	"image"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/domino-cascade/internal/engine/camera"
	"github.com/Faultbox/domino-cascade/internal/engine/lighting"
	"github.com/Faultbox/domino-cascade/internal/engine/mesh"
	"github.com/Faultbox/domino-cascade/internal/engine/renderer/shaders"
	"github.com/Faultbox/domino-cascade/internal/engine/shader"
	"github.com/Faultbox/domino-cascade/internal/engine/texture"
	"github.com/Faultbox/domino-cascade/internal/scene"
	"github.com/Faultbox/domino-cascade/pkg/math"
)

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int
	// WoodTexture is an image file used for the wood texture mode. The
	// procedural grain is used when it is empty or unreadable.
	WoodTexture string
}

type gpuMesh struct {
	vao, vbo, ebo uint32
	indexCount    int32
}

// Renderer handles all OpenGL rendering. It implements scene.Renderer.
type Renderer struct {
	config  Config
	log     *zap.Logger
	program *shader.Program

	meshes   map[scene.Geometry]*gpuMesh
	textures map[scene.TextureMode]uint32
}

var _ scene.Renderer = (*Renderer)(nil)

// New creates a new renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config, log *zap.Logger) (*Renderer, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)

	program, err := shader.NewProgram(shaders.LitVertexShader, shaders.LitFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("lit shader: %w", err)
	}

	r := &Renderer{
		config:   cfg,
		log:      log,
		program:  program,
		meshes:   make(map[scene.Geometry]*gpuMesh),
		textures: make(map[scene.TextureMode]uint32),
	}
	r.Resize(cfg.Width, cfg.Height)
	return r, nil
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	r.log.Info("closing renderer", zap.Int("meshes", len(r.meshes)), zap.Int("textures", len(r.textures)))
	for _, m := range r.meshes {
		gl.DeleteVertexArrays(1, &m.vao)
		gl.DeleteBuffers(1, &m.vbo)
		gl.DeleteBuffers(1, &m.ebo)
	}
	for _, id := range r.textures {
		gl.DeleteTextures(1, &id)
	}
	r.meshes = nil
	r.textures = nil
	r.program.Delete()
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized", zap.Int("width", width), zap.Int("height", height))
}

// Aspect returns the viewport aspect ratio.
func (r *Renderer) Aspect() float32 {
	if r.config.Height == 0 {
		return 1
	}
	return float32(r.config.Width) / float32(r.config.Height)
}

// Render clears the frame and draws every visible mesh. Shaded materials
// carry their own light uniforms; standard ones are lit by the scene's
// visible lights.
func (r *Renderer) Render(s *scene.Scene, view camera.View) {
	bg := s.Background
	gl.ClearColor(bg.R, bg.G, bg.B, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	p := r.program
	p.Use()
	p.SetMat4("uView", view.View)
	p.SetMat4("uProjection", view.Projection)
	p.SetVec3("uCameraPos", view.Eye)
	p.SetInt("textureMap", 0)

	sceneLights := lighting.ForScene(s)
	for _, m := range s.Meshes {
		if !m.Visible || m.Material == nil {
			continue
		}
		u := m.Material.Uniforms
		if m.Material.Kind == scene.Standard {
			sceneLights.Apply(&u)
		}
		r.setMaterial(u)
		p.SetMat4("uModel", m.Model())

		gm := r.mesh(m.Geometry)
		gl.BindVertexArray(gm.vao)
		gl.DrawElements(gl.TRIANGLES, gm.indexCount, gl.UNSIGNED_INT, nil)
	}
	gl.BindVertexArray(0)
}

func (r *Renderer) setMaterial(u scene.Uniforms) {
	p := r.program
	p.SetInt("shadingMode", int32(u.ShadingMode))
	p.SetVec3Array("lightPositions", u.LightPositions[:])
	colors := make([]math.Vec3, 0, len(u.LightColors))
	for _, c := range u.LightColors {
		colors = append(colors, c.Vec3())
	}
	p.SetVec3Array("lightColors", colors)
	p.SetInt("numLights", u.NumLights)
	p.SetColor("ambientColor", u.AmbientColor)
	p.SetFloat("diffuseReflectance", u.DiffuseReflectance)
	p.SetFloat("shininess", max(u.Shininess, 1))
	p.SetColor("uColor", u.Color)
	p.SetColor("specularColor", u.SpecularColor)

	tex := r.texture(u.Texture)
	p.SetBool("useTexture", u.UseTexture && tex != 0)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, tex)
}

// mesh returns the GPU buffers for a geometry, uploading on first use.
func (r *Renderer) mesh(g scene.Geometry) *gpuMesh {
	if gm, ok := r.meshes[g]; ok {
		return gm
	}
	data := mesh.Build(g)
	gm := &gpuMesh{indexCount: int32(len(data.Indices))}

	gl.GenVertexArrays(1, &gm.vao)
	gl.BindVertexArray(gm.vao)

	gl.GenBuffers(1, &gm.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, gm.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(data.Vertices)*mesh.VertexSize, unsafe.Pointer(&data.Vertices[0]), gl.STATIC_DRAW)

	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, mesh.VertexSize, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, mesh.VertexSize, 3*4)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, mesh.VertexSize, 6*4)
	gl.EnableVertexAttribArray(2)

	gl.GenBuffers(1, &gm.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, gm.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(data.Indices)*4, unsafe.Pointer(&data.Indices[0]), gl.STATIC_DRAW)

	gl.BindVertexArray(0)

	r.meshes[g] = gm
	r.log.Debug("mesh uploaded",
		zap.Int("kind", int(g.Kind)),
		zap.Int("vertices", len(data.Vertices)),
		zap.Int32("indices", gm.indexCount),
	)
	return gm
}

// texture returns the GL texture for a mode, creating it on first use.
// Zero means no texture.
func (r *Renderer) texture(mode scene.TextureMode) uint32 {
	if mode == scene.TextureNone {
		return 0
	}
	if id, ok := r.textures[mode]; ok {
		return id
	}
	img, err := texture.ForMode(mode, r.config.WoodTexture)
	if err != nil {
		r.log.Warn("texture unavailable", zap.Stringer("mode", mode), zap.Error(err))
	}
	var id uint32
	if img != nil {
		id = uploadTexture(img)
		r.log.Debug("texture uploaded", zap.Stringer("mode", mode), zap.Int("size", img.Bounds().Dx()))
	}
	r.textures[mode] = id
	return id
}

func uploadTexture(img *image.RGBA) uint32 {
	var texID uint32
	gl.GenTextures(1, &texID)
	gl.BindTexture(gl.TEXTURE_2D, texID)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(img.Bounds().Dx()), int32(img.Bounds().Dy()), 0, gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&img.Pix[0]))
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	return texID
}

// ReadPixels returns the current framebuffer as bottom-up RGBA rows.
func (r *Renderer) ReadPixels() (pixels []byte, width, height int) {
	width, height = r.config.Width, r.config.Height
	pixels = make([]byte, width*height*4)
	if len(pixels) == 0 {
		return pixels, width, height
	}
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels, width, height
}
