// Command nesdisplay is a thin, out-of-core host frontend: it opens a
// window, blits the emulator's framebuffer into it every frame, and
// polls the keyboard into a controller byte. None of this feeds back
// into CORE semantics (spec's §1 scope boundary); it exists only to
// exercise the Host API the way a real frontend would.
package main

import (
	"flag"
	"fmt"
	"image"
	"os"
	"strings"
	"time"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/golang/glog"

	"github.com/nescore/nescore/emulator"
)

const (
	vertexShader = `
  #version 330

  attribute vec3 position;
  attribute vec2 uv;
  varying vec2 vuv;
  void main(void){
    gl_Position = vec4(position, 1.0);
    vuv = uv;
  }
  ` + "\x00"

	fragmentShader = `
  #version 330

  varying vec2 vuv;
  uniform sampler2D texture;
  void main(void){
    gl_FragColor = texture2D(texture, vuv);
  }
  ` + "\x00"
)

func compileShader(code string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	ccode := gl.Str(code)
	gl.ShaderSource(shader, 1, &ccode, nil)
	gl.CompileShader(shader)
	var result int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &result)
	if result == gl.FALSE {
		var length int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &length)
		log := strings.Repeat("\x00", int(length+1))
		gl.GetShaderInfoLog(shader, length, nil, gl.Str(log))
		return 0, fmt.Errorf("failed to compile shader: %v\n%v", code, log)
	}
	return shader, nil
}

func newProgram() (uint32, error) {
	vs, err := compileShader(vertexShader, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	fs, err := compileShader(fragmentShader, gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, err
	}
	program := gl.CreateProgram()
	gl.AttachShader(program, vs)
	gl.AttachShader(program, fs)
	gl.LinkProgram(program)
	var result int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &result)
	if result == gl.FALSE {
		var length int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &length)
		log := strings.Repeat("\x00", int(length+1))
		gl.GetProgramInfoLog(program, length, nil, gl.Str(log))
		return 0, fmt.Errorf("failed to link program: %v", log)
	}
	gl.DeleteShader(vs)
	gl.DeleteShader(fs)
	return program, nil
}

var vertexPosition = []float32{
	1, 1,
	-1, 1,
	-1, -1,
	1, -1,
}
var vertexUV = []float32{
	1, 0,
	0, 0,
	0, 1,
	1, 1,
}

func updateTexture(program uint32, fb *image.RGBA) {
	var textureID uint32
	gl.GenTextures(1, &textureID)
	gl.BindTexture(gl.TEXTURE_2D, textureID)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA,
		int32(fb.Rect.Size().X), int32(fb.Rect.Size().Y),
		0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(fb.Pix))
	gl.BindTexture(gl.TEXTURE_2D, 0)
	positionLocation := uint32(gl.GetAttribLocation(program, gl.Str("position\x00")))
	uvLocation := uint32(gl.GetAttribLocation(program, gl.Str("uv\x00")))
	textureLocation := gl.GetUniformLocation(program, gl.Str("texture\x00"))
	gl.EnableVertexAttribArray(positionLocation)
	gl.EnableVertexAttribArray(uvLocation)
	gl.Uniform1i(textureLocation, 0)
	gl.VertexAttribPointer(positionLocation, 2, gl.FLOAT, false, 0, gl.Ptr(vertexPosition))
	gl.VertexAttribPointer(uvLocation, 2, gl.FLOAT, false, 0, gl.Ptr(vertexUV))
	gl.BindTexture(gl.TEXTURE_2D, textureID)
	gl.DrawArrays(gl.TRIANGLE_FAN, 0, 4)
}

// Button bit positions within the controller byte, MSB first per
// spec §6: A, B, Select, Start, Up, Down, Left, Right.
const (
	bitA      = 1 << 7
	bitB      = 1 << 6
	bitSelect = 1 << 5
	bitStart  = 1 << 4
	bitUp     = 1 << 3
	bitDown   = 1 << 2
	bitLeft   = 1 << 1
	bitRight  = 1 << 0
)

// pollControllerOne reads WASD+JHGF the way jyane-jnes's ui.getKeys
// does, packed into the single controller byte this core's Host API
// expects instead of a [8]bool array.
func pollControllerOne(window *glfw.Window) byte {
	var b byte
	set := func(bit byte, pressed bool) {
		if pressed {
			b |= bit
		}
	}
	set(bitRight, window.GetKey(glfw.KeyD) == glfw.Press)
	set(bitLeft, window.GetKey(glfw.KeyA) == glfw.Press)
	set(bitDown, window.GetKey(glfw.KeyS) == glfw.Press)
	set(bitUp, window.GetKey(glfw.KeyW) == glfw.Press)
	set(bitStart, window.GetKey(glfw.KeyG) == glfw.Press)
	set(bitSelect, window.GetKey(glfw.KeyF) == glfw.Press)
	set(bitB, window.GetKey(glfw.KeyH) == glfw.Press)
	set(bitA, window.GetKey(glfw.KeyJ) == glfw.Press)
	return b
}

func main() {
	flag.Parse()
	args := flag.Args()
	if len(args) != 1 {
		glog.Fatalf("usage: nesdisplay <rom.nes>")
	}

	romBytes, err := os.ReadFile(args[0])
	if err != nil {
		glog.Fatalf("nesdisplay: reading rom: %v", err)
	}

	emu, err := emulator.NewEmulator(romBytes)
	if err != nil {
		glog.Fatalf("nesdisplay: %v", err)
	}

	if err := glfw.Init(); err != nil {
		glog.Fatalln(err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	window, err := glfw.CreateWindow(256*2, 240*2, "nescore", nil, nil)
	if err != nil {
		glog.Fatalln(err)
	}
	window.MakeContextCurrent()
	if err := gl.Init(); err != nil {
		glog.Fatalln(err)
	}
	program, err := newProgram()
	if err != nil {
		glog.Fatalln(err)
	}
	gl.UseProgram(program)

	for !window.ShouldClose() {
		time.Sleep(time.Millisecond)

		emu.SetController(0, pollControllerOne(window))
		emu.StepFrame()

		updateTexture(program, emu.Framebuffer())
		window.SwapBuffers()
		glfw.PollEvents()
	}
}
