package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"
)

var (
	tradesHeader = []string{"run_id", "trade_id", "symbol", "quantity", "entry_price", "exit_price",
		"risk_amount", "open_date", "close_date", "realized_pl", "r_multiple", "reason"}
	equityHeader = []string{"run_id", "date", "capital"}
)

type CSVJournal struct {
	trades *csv.Writer
	equity *csv.Writer
	tf, ef *os.File
}

func NewCSV(tradesPath, equityPath string) (*CSVJournal, error) {
	tf, err := os.Create(tradesPath)
	if err != nil {
		return nil, err
	}
	ef, err := os.Create(equityPath)
	if err != nil {
		tf.Close()
		return nil, err
	}

	j := &CSVJournal{csv.NewWriter(tf), csv.NewWriter(ef), tf, ef}
	if err := j.writeRow(j.trades, tradesHeader); err != nil {
		j.Close()
		return nil, err
	}
	if err := j.writeRow(j.equity, equityHeader); err != nil {
		j.Close()
		return nil, err
	}
	return j, nil
}

func (j *CSVJournal) writeRow(w *csv.Writer, row []string) error {
	if err := w.Write(row); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func (j *CSVJournal) RecordTrade(t TradeRecord) error {
	return j.writeRow(j.trades, []string{
		t.RunID,
		t.TradeID,
		t.Symbol,
		f(t.Quantity),
		f(t.EntryPrice),
		f(t.ExitPrice),
		f(t.RiskAmount),
		t.OpenTime.Format(time.DateOnly),
		t.CloseTime.Format(time.DateOnly),
		f(t.RealizedPL),
		f(t.R),
		t.Reason,
	})
}

func (j *CSVJournal) RecordEquity(e EquitySnapshot) error {
	return j.writeRow(j.equity, []string{
		e.RunID,
		e.Time.Format(time.DateOnly),
		f(e.Capital),
	})
}

func (j *CSVJournal) Close() error {
	j.trades.Flush()
	j.equity.Flush()
	terr := j.tf.Close()
	eerr := j.ef.Close()
	if err := j.trades.Error(); err != nil {
		return err
	}
	if err := j.equity.Error(); err != nil {
		return err
	}
	if terr != nil {
		return terr
	}
	return eerr
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
