package desktop

import (
	"net/http"

	"github.com/bytedance/sonic"
)

// BridgeInfoPath is where the UI fetches the bridge address and token.
const BridgeInfoPath = "/bridge.json"

// BridgeInfo tells the UI how to reach the command bridge.
type BridgeInfo struct {
	Address string `json:"address"`
	Token   string `json:"token"`
}

// AssetHandler serves dynamic assets the embedded bundle cannot contain. It
// is only reachable from the webview, which is what keeps the token private.
func AssetHandler(info BridgeInfo) http.Handler {
	body, err := sonic.Marshal(info)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != BridgeInfoPath {
			http.NotFound(w, r)
			return
		}
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
		if err != nil {
			http.Error(w, "bridge info unavailable", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		_, _ = w.Write(body)
	})
}
