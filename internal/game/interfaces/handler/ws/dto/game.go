package dto

type BindReq struct {
	Token string `json:"token"`
}

type BindResp struct {
	Sid string `json:"sid"`
}

// ViewReq 与 HTTP 的 bbox 参数同序：south, west, north, east。
type ViewReq struct {
	South float64 `json:"south"`
	West  float64 `json:"west"`
	North float64 `json:"north"`
	East  float64 `json:"east"`
}

type ExchangeReq struct {
	I int `json:"i"`
	J int `json:"j"`
}

// 推送

type InventoryPush struct {
	Text string `json:"text"`
}

type CellPush struct {
	I    int    `json:"i"`
	J    int    `json:"j"`
	Text string `json:"text"`
}
