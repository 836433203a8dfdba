package hierarchy

import "context"

func (a *Aggregator) MandalsInCluster(ctx context.Context, s *Scope) (*Projection, error) {
	return a.Project(ctx, Cluster, Mandal, s)
}

func (a *Aggregator) MandalsInSambhag(ctx context.Context, s *Scope) (*Projection, error) {
	return a.Project(ctx, Sambhag, Mandal, s)
}

func (a *Aggregator) MandalsInLokSabha(ctx context.Context, s *Scope) (*Projection, error) {
	return a.Project(ctx, Lok, Mandal, s)
}

func (a *Aggregator) MandalsInJila(ctx context.Context, s *Scope) (*Projection, error) {
	return a.Project(ctx, Jila, Mandal, s)
}

func (a *Aggregator) MandalsInVidhanSabha(ctx context.Context, s *Scope) (*Projection, error) {
	return a.Project(ctx, Vid, Mandal, s)
}

func (a *Aggregator) SakhasInCluster(ctx context.Context, s *Scope) (*Projection, error) {
	return a.Project(ctx, Cluster, Sakha, s)
}

func (a *Aggregator) SakhasInSambhag(ctx context.Context, s *Scope) (*Projection, error) {
	return a.Project(ctx, Sambhag, Sakha, s)
}

func (a *Aggregator) SakhasInMandal(ctx context.Context, s *Scope) (*Projection, error) {
	return a.Project(ctx, Mandal, Sakha, s)
}

func (a *Aggregator) SakhasInJila(ctx context.Context, s *Scope) (*Projection, error) {
	return a.Project(ctx, Jila, Sakha, s)
}

func (a *Aggregator) SakhasInLokSabha(ctx context.Context, s *Scope) (*Projection, error) {
	return a.Project(ctx, Lok, Sakha, s)
}

func (a *Aggregator) SakhasInVidhanSabha(ctx context.Context, s *Scope) (*Projection, error) {
	return a.Project(ctx, Vid, Sakha, s)
}

func (a *Aggregator) BoothsInCluster(ctx context.Context, s *Scope) (*Projection, error) {
	return a.Project(ctx, Cluster, Booth, s)
}

func (a *Aggregator) BoothsInSambhag(ctx context.Context, s *Scope) (*Projection, error) {
	return a.Project(ctx, Sambhag, Booth, s)
}

func (a *Aggregator) BoothsInLokSabha(ctx context.Context, s *Scope) (*Projection, error) {
	return a.Project(ctx, Lok, Booth, s)
}

func (a *Aggregator) BoothsInVidhanSabha(ctx context.Context, s *Scope) (*Projection, error) {
	return a.Project(ctx, Vid, Booth, s)
}

func (a *Aggregator) BoothsInJila(ctx context.Context, s *Scope) (*Projection, error) {
	return a.Project(ctx, Jila, Booth, s)
}

func (a *Aggregator) BoothsInMandal(ctx context.Context, s *Scope) (*Projection, error) {
	return a.Project(ctx, Mandal, Booth, s)
}

func (a *Aggregator) BoothsInSakha(ctx context.Context, s *Scope) (*Projection, error) {
	return a.Project(ctx, Sakha, Booth, s)
}

func (a *Aggregator) VidhanSabhasInCluster(ctx context.Context, s *Scope) (*Projection, error) {
	return a.Project(ctx, Cluster, Vid, s)
}

func (a *Aggregator) VidhanSabhasInLokSabha(ctx context.Context, s *Scope) (*Projection, error) {
	return a.Project(ctx, Lok, Vid, s)
}

func (a *Aggregator) VidhanSabhasInSambhag(ctx context.Context, s *Scope) (*Projection, error) {
	return a.Project(ctx, Sambhag, Vid, s)
}

func (a *Aggregator) VidhanSabhasInJila(ctx context.Context, s *Scope) (*Projection, error) {
	return a.Project(ctx, Jila, Vid, s)
}

func (a *Aggregator) LokSabhasInCluster(ctx context.Context, s *Scope) (*Projection, error) {
	return a.Project(ctx, Cluster, Lok, s)
}

func (a *Aggregator) JilasInSambhag(ctx context.Context, s *Scope) (*Projection, error) {
	return a.Project(ctx, Sambhag, Jila, s)
}
