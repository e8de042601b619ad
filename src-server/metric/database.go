package metric

import (
	"calcore/src-server/model"
	"calcore/src-server/utils"
	"context"
	"time"
)

func database(as *utils.AppState) (time.Duration, error) {
	start := time.Now()
	if _, err := as.BunDB.NewSelect().
		Model((*model.Incidence)(nil)).
		Where("uid = ?", "").
		Exists(context.Background()); err != nil {
		return 0, err
	}
	return time.Since(start), nil
}
