// Copyright 2025 EngFlow Inc. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package platform defines a normalized representation of operating
// system and architecture combinations, and precomputed macro
// environments (e.g. _WIN32, __linux__, __APPLE__) a host can merge into
// an Expander's Options.UserDefines to emulate a real compiler's
// predefined macros. The engine itself starts with nothing but __LINE__
// (spec.md §6); opting into a platform environment is entirely the
// host's choice.
package platform

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/shaderpp/shaderpp/internal/collections"
	"github.com/shaderpp/shaderpp/macro"
)

// Platform is an OS/Arch pair identifying a target.
type Platform struct {
	OS   OS
	Arch Arch
}

func (p Platform) String() string {
	return fmt.Sprintf("%s/%s", p.OS, p.Arch)
}

// Compare orders first by OS, then by Arch, based on string ordering.
func Compare(a, b Platform) int {
	if d := cmp.Compare(a.OS, b.OS); d != 0 {
		return d
	}
	return cmp.Compare(a.Arch, b.Arch)
}

// Create canonicalizes os/arch (resolving known aliases, e.g. "macos" ->
// osx, "amd64" -> x86_64) and reports an error if the result does not
// name a known platform component.
func Create(os OS, arch Arch) (Platform, error) {
	platform := Platform{
		OS:   dealias(os, osAlias),
		Arch: dealias(arch, archAlias),
	}
	if !slices.Contains(allKnownOS, platform.OS) {
		return platform, fmt.Errorf("unknown OS %v, expected one of %v or an alias %v", platform.OS, allKnownOS, osAlias)
	}
	if !slices.Contains(allKnownArch, platform.Arch) {
		return platform, fmt.Errorf("unknown architecture %v, expected one of %v or an alias %v", platform.Arch, allKnownArch, archAlias)
	}
	return platform, nil
}

// OS is an operating-system identifier.
type OS string

const (
	Android    OS = "android"
	ChromiumOS OS = "chromiumos"
	Emscripten OS = "emscripten"
	FreeBSD    OS = "freebsd"
	Fuchsia    OS = "fuchsia"
	Haiku      OS = "haiku"
	IOS        OS = "ios"
	Linux      OS = "linux"
	NetBSD     OS = "netbsd"
	NixOS      OS = "nixos"
	None       OS = "none" // bare-metal
	OpenBSD    OS = "openbsd"
	OSX        OS = "osx"
	QNX        OS = "qnx"
	TVOS       OS = "tvos"
	UEFI       OS = "uefi"
	VisionOS   OS = "visionos"
	VxWorks    OS = "vxworks"
	WASI       OS = "wasi"
	WatchOS    OS = "watchos"
	Windows    OS = "windows"
)

var osAlias = map[string]OS{
	"macos": OSX,
}

var allKnownOS = []OS{
	Android, ChromiumOS, Emscripten, FreeBSD, Fuchsia, Haiku, IOS,
	Linux, NetBSD, NixOS, None, OpenBSD, OSX, QNX, TVOS,
	UEFI, VisionOS, VxWorks, WASI, WatchOS, Windows,
}

// Arch is a CPU architecture identifier.
type Arch string

const (
	AArch32   Arch = "aarch32"
	AArch64   Arch = "aarch64"
	Arm64_32  Arch = "arm64_32"
	Arm64e    Arch = "arm64e"
	ArmV6M    Arch = "armv6-m"
	ArmV7     Arch = "armv7"
	ArmV7EM   Arch = "armv7e-m"
	ArmV7K    Arch = "armv7k"
	ArmV7M    Arch = "armv7-m"
	ArmV8M    Arch = "armv8-m"
	I386      Arch = "i386"
	MIPS64    Arch = "mips64"
	PPC32     Arch = "ppc32"
	PPC64LE   Arch = "ppc64le"
	RISCV32   Arch = "riscv32"
	RISCV64   Arch = "riscv64"
	S390X     Arch = "s390x"
	WASM32    Arch = "wasm32"
	WASM64    Arch = "wasm64"
	X86_32    Arch = "x86_32"
	X86_64    Arch = "x86_64"
)

var archAlias = map[string]Arch{
	"arm":   AArch32,
	"arm64": AArch64,
	"amd64": X86_64,
}

var allKnownArch = []Arch{
	AArch32, AArch64, Arm64_32, Arm64e, ArmV6M, ArmV7, ArmV7EM,
	ArmV7K, ArmV7M, ArmV8M, I386, MIPS64, PPC32,
	PPC64LE, RISCV32, RISCV64, S390X, WASM32, WASM64, X86_32, X86_64,
}

// KnownEnv maps every platform this package knows macros for to the set
// of object-like macro names a real compiler predefines on it. It is
// built once at package init time from the (name, []Platform) table
// below, mirroring the teacher's KnownPlatformEnv.
var KnownEnv = map[Platform][]string{}

func init() {
	//----------------------------------------------------------------
	// Windows
	//----------------------------------------------------------------
	windowsArchs := []Arch{I386, X86_32, X86_64, AArch32, AArch64}
	addNames([]string{"_WIN32"}, osArchPlatforms(Windows, windowsArchs))
	addNames([]string{"_WIN64"}, osArchPlatforms(Windows, []Arch{X86_64, AArch64}))
	addNames([]string{"__MINGW32__"}, []Platform{{Windows, I386}})
	addNames([]string{"__MINGW64__"}, []Platform{{Windows, X86_64}})

	//----------------------------------------------------------------
	// Linux / Android / NixOS / ChromeOS family
	//----------------------------------------------------------------
	addNames([]string{"linux", "__linux__", "__linux", "__gnu_linux__"},
		osArchPlatforms(Linux, allKnownArch))
	addNames([]string{"__NIX__", "__NIXOS__"}, osArchPlatforms(NixOS, allKnownArch))
	addNames([]string{"__ANDROID__"},
		osArchPlatforms(Android, []Arch{AArch32, AArch64, X86_32, X86_64, RISCV64}))
	addNames([]string{"__CHROMEOS__"},
		osArchPlatforms(ChromiumOS, []Arch{X86_64, AArch64, RISCV64}))

	unixOS := []OS{Linux, Android, ChromiumOS, NixOS, FreeBSD, NetBSD, OpenBSD, Haiku, QNX}
	addNames([]string{"unix", "__unix", "__unix__"}, platformsMatrix(unixOS, allKnownArch))

	//----------------------------------------------------------------
	// WebAssembly
	//----------------------------------------------------------------
	wasmArchs := []Arch{WASM32, WASM64}
	addNames([]string{"__EMSCRIPTEN__"}, platformsMatrix([]OS{Emscripten}, wasmArchs))
	addNames([]string{"__wasi__"}, platformsMatrix([]OS{WASI}, wasmArchs))
	addNames([]string{"__wasm__"}, platformsMatrix([]OS{Emscripten, WASI}, wasmArchs))

	//----------------------------------------------------------------
	// BSD family
	//----------------------------------------------------------------
	bsdArchs := []Arch{I386, X86_64, AArch64, RISCV64, PPC64LE}
	addNames([]string{"__FreeBSD__"}, platformsMatrix([]OS{FreeBSD}, bsdArchs))
	addNames([]string{"__NetBSD__"}, platformsMatrix([]OS{NetBSD}, bsdArchs))
	addNames([]string{"__OpenBSD__"}, platformsMatrix([]OS{OpenBSD}, bsdArchs))

	//----------------------------------------------------------------
	// QNX, Haiku, Fuchsia, VxWorks, UEFI
	//----------------------------------------------------------------
	qnxArchs := []Arch{AArch32, AArch64, PPC32, PPC64LE, X86_32, X86_64}
	addNames([]string{"__QNX__", "__QNXNTO__"}, osArchPlatforms(QNX, qnxArchs))
	addNames([]string{"__HAIKU__"}, osArchPlatforms(Haiku, []Arch{X86_32, X86_64}))
	addNames([]string{"__FUCHSIA__", "__Fuchsia__"}, osArchPlatforms(Fuchsia, []Arch{AArch64, X86_64}))
	vxArchs := []Arch{AArch32, AArch64, PPC32, PPC64LE, X86_32, X86_64}
	addNames([]string{"__VXWORKS__", "__vxworks"}, osArchPlatforms(VxWorks, vxArchs))
	uefiArchs := []Arch{AArch32, AArch64, X86_32, X86_64, RISCV64}
	addNames([]string{"__UEFI__", "__EFI__"}, osArchPlatforms(UEFI, uefiArchs))

	//----------------------------------------------------------------
	// Apple family
	//----------------------------------------------------------------
	macArchs := []Arch{X86_64, AArch64, Arm64e}
	iosArchs := []Arch{AArch64, Arm64e}
	applePlatforms := slices.Concat(
		osArchPlatforms(OSX, macArchs),
		osArchPlatforms(IOS, iosArchs),
		osArchPlatforms(TVOS, []Arch{AArch64}),
		osArchPlatforms(WatchOS, []Arch{ArmV7K, Arm64_32}),
		osArchPlatforms(VisionOS, []Arch{AArch64}),
	)
	addNames([]string{"__APPLE__", "__MACH__"}, applePlatforms)
	addNames([]string{"TARGET_OS_OSX", "TARGET_OS_MAC"}, osArchPlatforms(OSX, macArchs))
	addNames([]string{"TARGET_OS_IPHONE", "TARGET_OS_IOS"}, osArchPlatforms(IOS, iosArchs))

	//----------------------------------------------------------------
	// Generic CPU-only macros
	//----------------------------------------------------------------
	addNames([]string{"__x86_64__", "__x86_64", "__amd64", "__amd64__"},
		archOSPlatforms(X86_64, allKnownOS))
	addNames([]string{"__i386__", "__i386"}, archOSPlatforms(I386, allKnownOS))
	addNames([]string{"__arm__", "__arm", "__thumb__", "__thumb"}, archOSPlatforms(AArch32, allKnownOS))
	addNames([]string{"__aarch64__", "__arm64", "__arm64__"}, archOSPlatforms(AArch64, allKnownOS))

	//----------------------------------------------------------------
	// PowerPC / MIPS / s390 / RISC-V
	//----------------------------------------------------------------
	powerPCOS := []OS{Linux, FreeBSD, NetBSD, OpenBSD, QNX, VxWorks}
	addNames([]string{"__powerpc__", "__PPC__"}, archOSPlatforms(PPC32, powerPCOS))
	addNames([]string{"__powerpc64__", "__ppc64__"}, archOSPlatforms(PPC64LE, powerPCOS))
	mipsOS := []OS{Linux, NetBSD, OpenBSD, QNX, VxWorks}
	addNames([]string{"__mips64"}, archOSPlatforms(MIPS64, mipsOS))
	addNames([]string{"__s390x__", "__s390__"}, []Platform{{Linux, S390X}})
	riscvOS := []OS{Linux, FreeBSD, NetBSD, OpenBSD, QNX, VxWorks, Android, ChromiumOS, Fuchsia, NixOS}
	addNames([]string{"__riscv"}, archOSPlatforms(RISCV64, riscvOS))
}

// Env returns the set of object-like predefined macros for p, ready to
// merge into macro.Seed (e.g. via append, or a caller's own
// Options.UserDefines construction). An unrecognized platform returns an
// empty, non-nil Seed.
func Env(p Platform) macro.Seed {
	return collections.MapSlice(KnownEnv[p], macro.ObjectLike)
}

func addNames(names []string, platforms []Platform) {
	for _, p := range platforms {
		for _, name := range names {
			KnownEnv[p] = append(KnownEnv[p], name)
		}
	}
}

func osArchPlatforms(os OS, archs []Arch) []Platform {
	out := make([]Platform, 0, len(archs))
	for _, arch := range archs {
		out = append(out, Platform{OS: os, Arch: arch})
	}
	return out
}

func archOSPlatforms(arch Arch, oses []OS) []Platform {
	out := make([]Platform, 0, len(oses))
	for _, os := range oses {
		out = append(out, Platform{OS: os, Arch: arch})
	}
	return out
}

func platformsMatrix(oses []OS, archs []Arch) []Platform {
	out := make([]Platform, 0, len(oses)*len(archs))
	for _, os := range oses {
		for _, arch := range archs {
			out = append(out, Platform{OS: os, Arch: arch})
		}
	}
	return out
}

func dealias[T ~string](value T, aliases map[string]T) T {
	if dealiased, ok := aliases[string(value)]; ok {
		return dealiased
	}
	return value
}
