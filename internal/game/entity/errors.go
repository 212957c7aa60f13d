package entity

import "Geocache/modules/kit/errx"

const CodeInventoryFull errx.Code = "GAME_INVENTORY_FULL"

var ErrInventoryFull = errx.NewBiz(CodeInventoryFull, "背包里已有代币")
