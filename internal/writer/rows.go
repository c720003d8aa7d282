package writer

import "github.com/tickfoundry/tradesilver/internal/model"

// tradeRowV1 is the day-file layout with the symbol column.
type tradeRowV1 struct {
	TsRecv       string `parquet:"ts_recv"`
	TsEvent      string `parquet:"ts_event"`
	RType        int64  `parquet:"rtype"`
	PublisherID  int64  `parquet:"publisher_id"`
	InstrumentID int64  `parquet:"instrument_id"`
	Action       string `parquet:"action"`
	Side         string `parquet:"side"`
	Depth        int64  `parquet:"depth"`
	Price        int64  `parquet:"price"`
	Size         int64  `parquet:"size"`
	Flags        int64  `parquet:"flags"`
	TsInDelta    int64  `parquet:"ts_in_delta"`
	Sequence     int64  `parquet:"sequence"`
	Symbol       string `parquet:"symbol"`
}

// tradeRowV2 is the symbol-less variant.
type tradeRowV2 struct {
	TsRecv       string `parquet:"ts_recv"`
	TsEvent      string `parquet:"ts_event"`
	RType        int64  `parquet:"rtype"`
	PublisherID  int64  `parquet:"publisher_id"`
	InstrumentID int64  `parquet:"instrument_id"`
	Action       string `parquet:"action"`
	Side         string `parquet:"side"`
	Depth        int64  `parquet:"depth"`
	Price        int64  `parquet:"price"`
	Size         int64  `parquet:"size"`
	Flags        int64  `parquet:"flags"`
	TsInDelta    int64  `parquet:"ts_in_delta"`
	Sequence     int64  `parquet:"sequence"`
}

func toRowV1(rec model.TradeRecord) tradeRowV1 {
	return tradeRowV1{
		TsRecv:       rec.TsRecv,
		TsEvent:      rec.TsEvent,
		RType:        rec.RType,
		PublisherID:  rec.PublisherID,
		InstrumentID: rec.InstrumentID,
		Action:       rec.Action,
		Side:         rec.Side,
		Depth:        rec.Depth,
		Price:        rec.Price,
		Size:         rec.Size,
		Flags:        rec.Flags,
		TsInDelta:    rec.TsInDelta,
		Sequence:     rec.Sequence,
		Symbol:       rec.Symbol,
	}
}

func toRowV2(rec model.TradeRecord) tradeRowV2 {
	return tradeRowV2{
		TsRecv:       rec.TsRecv,
		TsEvent:      rec.TsEvent,
		RType:        rec.RType,
		PublisherID:  rec.PublisherID,
		InstrumentID: rec.InstrumentID,
		Action:       rec.Action,
		Side:         rec.Side,
		Depth:        rec.Depth,
		Price:        rec.Price,
		Size:         rec.Size,
		Flags:        rec.Flags,
		TsInDelta:    rec.TsInDelta,
		Sequence:     rec.Sequence,
	}
}
