package coreplugins

import (
	"github.com/yacobolo/jitcss/internal/csstree"
	"github.com/yacobolo/jitcss/internal/plugin"
)

const preflightCSS = `
*, ::before, ::after {
  box-sizing: border-box;
  border-width: 0;
  border-style: solid;
  border-color: currentColor;
}
html {
  line-height: 1.5;
  -webkit-text-size-adjust: 100%;
  tab-size: 4;
}
body {
  margin: 0;
  font-family: inherit;
  line-height: inherit;
}
hr {
  height: 0;
  color: inherit;
}
b, strong {
  font-weight: bolder;
}
button, input, optgroup, select, textarea {
  font-family: inherit;
  font-size: 100%;
  line-height: inherit;
  color: inherit;
  margin: 0;
  padding: 0;
}
img, svg, video, canvas, audio, iframe, embed, object {
  display: block;
  vertical-align: middle;
}
img, video {
  max-width: 100%;
  height: auto;
}
[hidden] {
  display: none;
}
`

// preflight registers the reset styles. None of its selectors carry a
// class, so the rules always apply.
func preflight(api plugin.API) {
	api.AddBase(csstree.MustParse(preflightCSS).RemoveAll())
}
