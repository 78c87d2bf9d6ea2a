// Package logo provides the ASCII art shown next to the system report.
// Logos are plain text; the renderer paints them with the logo's color.
package logo

import "strings"

// Logo is one piece of ASCII art and the ANSI color index it is drawn in.
type Logo struct {
	Name  string
	Color string
	Lines []string
}

type entry struct {
	match []string
	full  Logo
	small Logo
}

// art splits a raw multi-line literal into lines, dropping the leading
// newline that follows the opening backtick.
func art(s string) []string {
	return strings.Split(strings.TrimPrefix(s, "\n"), "\n")
}

var (
	tux = Logo{Name: "linux", Color: "3", Lines: art(`
    .--.
   |o_o |
   |:_/ |
  //   \ \
 (|     | )
/'\_   _/'\
\___)=(___/`)}

	tuxSmall = Logo{Name: "linux", Color: "3", Lines: art(`
  ___
 (.. |
 (<> |
/ __  \
( /  \/|
_/\ __)/_)`)}

	generic = Logo{Name: "generic", Color: "7", Lines: art(`
  _________
 |  _____  |
 | |     | |
 | |_____| |
 |_________|
   _|___|_
  |_______|`)}

	genericSmall = Logo{Name: "generic", Color: "7", Lines: art(`
 _____
| ___ |
||___||
|_____|`)}

	macOS = Logo{Name: "macos", Color: "2", Lines: art(`
          .:'
      __ :'__
   .'   '-'   '.
  :            :
  :           :
   :           '.
    '.  .--.  .'
      ''    ''`)}

	macOSSmall = Logo{Name: "macos", Color: "2", Lines: art(`
    .:'
 _ :'_
(_'-'_)
 '._.'`)}

	windows = Logo{Name: "windows", Color: "6", Lines: art(`
 ########  ########
 ########  ########
 ########  ########
 ########  ########

 ########  ########
 ########  ########
 ########  ########
 ########  ########`)}

	windowsSmall = Logo{Name: "windows", Color: "6", Lines: art(`
 ## ##
 ## ##

 ## ##
 ## ##`)}
)

// table is matched in order against the lower-cased OS name, so more
// specific names come before the ones they contain.
var table = []entry{
	{match: []string{"pop!_os", "pop_os", "pop os"}, full: Logo{Name: "pop", Color: "6", Lines: art(`
______
\   _ \        __
 \ \ \ \      / /
  \ \_\ \    / /
   \  ___\  /_/
    \ \    _
   __\_\__(_)_
  (___________)`)}},
	{match: []string{"manjaro"}, full: Logo{Name: "manjaro", Color: "2", Lines: art(`
||||||||| ||||
||||||||| ||||
||||      ||||
|||| |||| ||||
|||| |||| ||||
|||| |||| ||||
|||| |||| ||||`)}, small: Logo{Name: "manjaro", Color: "2", Lines: art(`
||||| ||
||    ||
|| || ||
|| || ||`)}},
	{match: []string{"mint"}, full: Logo{Name: "mint", Color: "2", Lines: art(`
 _____________
|_            \
  |  | _____  |
  |  | | | |  |
  |  | | | |  |
  |  \_____/  |
  \___________/`)}},
	{match: []string{"ubuntu"}, full: Logo{Name: "ubuntu", Color: "1", Lines: art(`
           _
       ---(_)
   _/  ---  \
  (_) |   |
    \  --- _/
       ---(_)`)}, small: Logo{Name: "ubuntu", Color: "1", Lines: art(`
    _
 --(_)
(_)  |
 --(_)`)}},
	{match: []string{"debian"}, full: Logo{Name: "debian", Color: "1", Lines: art(`
    _____
   /  __ \
  |  /    |
  |  \___-
  -_
    --_`)}, small: Logo{Name: "debian", Color: "1", Lines: art(`
  ___
 / _ \
| (_-'
 \_`)}},
	{match: []string{"fedora"}, full: Logo{Name: "fedora", Color: "4", Lines: art(`
      _____
     /   __)\
     |  /  \ \
  ___|  |__/ /
 / (_    _)_/
/ /  |  |
\ \__/  |
 \(_____/`)}, small: Logo{Name: "fedora", Color: "4", Lines: art(`
   __
  / _)
_| |_
 | |
(__/`)}},
	{match: []string{"arch"}, full: Logo{Name: "arch", Color: "6", Lines: art(`
       /\
      /  \
     /\   \
    /      \
   /   ,,   \
  /   |  |  -\
 /_-''    ''-_\`)}, small: Logo{Name: "arch", Color: "6", Lines: art(`
    /\
   /  \
  /.--.\
 /'    '\`)}},
	{match: []string{"alpine"}, full: Logo{Name: "alpine", Color: "4", Lines: art(`
    /\ /\
   // \  \
  //   \  \
 ///    \  \
//       \  \
          \  \`)}},
	{match: []string{"gentoo"}, full: Logo{Name: "gentoo", Color: "5", Lines: art(`
 _-----_
(       \
\    0   \
 \        )
 /      _/
(     _-
\____-`)}},
	{match: []string{"nixos"}, full: Logo{Name: "nixos", Color: "4", Lines: art(`
  \\  \\ //
 ==\\__\\/ //
   //   \\//
==//     //==
 //\\___//
// /\\  \\==
  // \\  \\`)}},
	{match: []string{"suse"}, full: Logo{Name: "opensuse", Color: "2", Lines: art(`
  _______
__|   __ \
     / .\ \
     \__/ |
   _______|
   \_______
__________/`)}},
	{match: []string{"kali"}, full: Logo{Name: "kali", Color: "4", Lines: art(`
  ..............
              ..,;:ccc,.
            ......'''';lxO.
  .....''''..........,:ld;
             .';;;:::;,,.x,
        ..'''.            0Xxoc:,.
                          .ccl:;'`)}},
	{match: []string{"rocky"}, full: Logo{Name: "rocky", Color: "2", Lines: art(`
    __wgliliiligw_,
   g@@@@@@@@@@@@@@@g
  g@@@@@@@@@@@@@@@@@@g
 g@@@@@@@@@@@@@@@@@@@@@g
 @@@@@@@@@@@@@@@@@@@@@P*
  Q@@@@@@@@@@@@@@@P*  ,g
   Q@@@@@@@@@@P*  ,g@@P
    *R@@@@P*  ,g@@@P*`)}},
	{match: []string{"centos"}, full: Logo{Name: "centos", Color: "3", Lines: art(`
 ____^____
 |\  |  /|
 | \ | / |
<---- ---->
 | / | \ |
 |/__|__\|
     v`)}},
	{match: []string{"macos", "mac os", "darwin"}, full: macOS, small: macOSSmall},
	{match: []string{"windows"}, full: windows, small: windowsSmall},
	{match: []string{"freebsd"}, full: Logo{Name: "freebsd", Color: "1", Lines: art(`
 _  _____  _
/ \/     \/ \
\  /      \ /
 ) |       |
 \  \     /
  '._____.'`)}},
	{match: []string{"linux", "gnu"}, full: tux, small: tuxSmall},
}

func lookup(osName string) (entry, bool) {
	name := strings.ToLower(osName)
	if name == "" {
		return entry{}, false
	}
	for _, e := range table {
		for _, m := range e.match {
			if strings.Contains(name, m) {
				return e, true
			}
		}
	}
	return entry{}, false
}

// For returns the logo for an OS name, or the generic logo when no entry
// matches.
func For(osName string) Logo {
	if e, ok := lookup(osName); ok {
		return e.full
	}
	return generic
}

// Small returns the compact variant of the logo for osName. Distributions
// without one get the small logo of their family.
func Small(osName string) Logo {
	e, ok := lookup(osName)
	switch {
	case ok && e.small.Lines != nil:
		return e.small
	case ok && e.full.Name == "macos":
		return macOSSmall
	case ok:
		return tuxSmall
	}
	return genericSmall
}

// Default returns the logo shown before the OS name is known, chosen by
// GOOS.
func Default(goos string, small bool) Logo {
	var full, compact Logo
	switch goos {
	case "linux":
		full, compact = tux, tuxSmall
	case "darwin":
		full, compact = macOS, macOSSmall
	case "windows":
		full, compact = windows, windowsSmall
	case "freebsd":
		return pick(For("freebsd"), Small("freebsd"), small)
	default:
		full, compact = generic, genericSmall
	}
	return pick(full, compact, small)
}

func pick(full, compact Logo, small bool) Logo {
	if small {
		return compact
	}
	return full
}

// Select returns the small or full logo for osName.
func Select(osName string, small bool) Logo {
	return pick(For(osName), Small(osName), small)
}

var icons = []struct {
	match []string
	icon  string
}{
	{[]string{"macos", "mac os"}, "\uf8ff"},
	{[]string{"ubuntu"}, "♕"},
	{[]string{"debian"}, "♦"},
	{[]string{"fedora"}, "🦋"},
	{[]string{"arch"}, "🌀"},
	{[]string{"pop"}, "🚀"},
	{[]string{"cachy"}, "🌰"},
	{[]string{"pika"}, "🐭"},
	{[]string{"elementary"}, "🍎"},
	{[]string{"manjaro"}, "🌄"},
	{[]string{"kali"}, "🔪"},
	{[]string{"suse"}, "🦎"},
	{[]string{"centos"}, "🩸"},
	{[]string{"rocky"}, "🪨"},
	{[]string{"alpine"}, "🏔"},
	{[]string{"mint"}, "🌿"},
	{[]string{"linux"}, "🐧"},
}

// Icon returns a glyph for the distribution, or "" when there is none.
// "CachyOS Linux" matches cachy before the generic linux penguin.
func Icon(osName string) string {
	name := strings.ToLower(osName)
	for _, ic := range icons {
		for _, m := range ic.match {
			if strings.Contains(name, m) {
				return ic.icon
			}
		}
	}
	return ""
}
