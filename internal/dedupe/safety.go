package dedupe

// vetoUnsafe splits removal candidates into the final redundant set and the
// vetoed ones. A candidate holding any globally unique track is never
// removed, whatever the earlier phases decided. ids fixes the order of the
// unsafe list.
func vetoUnsafe(
	ids []string,
	candidates map[string]struct{},
	uniqueCount map[string]int,
	sizes map[string]int,
) (map[string]struct{}, []UnsafeRelease) {
	redundant := make(map[string]struct{}, len(candidates))
	var unsafe []UnsafeRelease
	for _, id := range ids {
		if _, ok := candidates[id]; !ok {
			continue
		}
		if unique := uniqueCount[id]; unique > 0 {
			unsafe = append(unsafe, UnsafeRelease{
				Release:      id,
				UniqueTracks: unique,
				TotalTracks:  sizes[id],
			})
			continue
		}
		redundant[id] = struct{}{}
	}
	return redundant, unsafe
}
